package adapters

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"booking-checkout/internal/core/logger"
	"booking-checkout/internal/features/bookings/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

var detailsTemplate = template.Must(template.New("booking").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Booking {{.BookingID}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 32px; color: #222; }
h1 { font-size: 22px; margin-bottom: 4px; }
h2 { font-size: 15px; margin-top: 24px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
table { width: 100%; border-collapse: collapse; }
td { padding: 3px 0; vertical-align: top; }
td.k { color: #666; width: 40%; }
.status { text-transform: uppercase; font-weight: bold; }
.code { font-size: 20px; letter-spacing: 4px; }
</style>
</head>
<body>
<h1>Booking {{.BookingID}}</h1>
<div class="status">{{.Status}}</div>

<h2>Service</h2>
<table>
<tr><td class="k">Service</td><td>{{.Service.ServiceName}}</td></tr>
<tr><td class="k">Room</td><td>{{.Service.RoomType}}</td></tr>
<tr><td class="k">Check-in</td><td>{{.Service.CheckIn}}</td></tr>
<tr><td class="k">Check-out</td><td>{{.Service.CheckOut}}</td></tr>
<tr><td class="k">Guests</td><td>{{.Service.Adults}} adults, {{.Service.Children}} children, {{.Service.Infants}} infants</td></tr>
{{with .Location}}<tr><td class="k">Location</td><td>{{.}}</td></tr>{{end}}
{{with .Instructions}}<tr><td class="k">Instructions</td><td>{{.}}</td></tr>{{end}}
</table>

<h2>Contact</h2>
<table>
<tr><td class="k">Name</td><td>{{.Contact.Name}}</td></tr>
<tr><td class="k">Email</td><td>{{.Contact.Email}}</td></tr>
<tr><td class="k">Phone</td><td>{{.Contact.Phone}}</td></tr>
<tr><td class="k">Address</td><td>{{.Contact.Address}}, {{.Contact.City}}, {{.Contact.Country}}</td></tr>
</table>

<h2>Fees</h2>
<table>
<tr><td class="k">Price per night</td><td>{{.Fees.UnitPrice}} {{.Fees.Currency}}</td></tr>
<tr><td class="k">Nights</td><td>{{.Fees.Nights}}</td></tr>
<tr><td class="k">Subtotal</td><td>{{.Fees.Subtotal}} {{.Fees.Currency}}</td></tr>
<tr><td class="k">Cancellation fee</td><td>{{.Fees.CancellationFee}} {{.Fees.Currency}}</td></tr>
<tr><td class="k">Total</td><td>{{.Fees.Total}} {{.Fees.Currency}}</td></tr>
{{with .Fees.Refund}}<tr><td class="k">Refund</td><td>{{.}}</td></tr>{{end}}
</table>

<h2>Payment</h2>
<table>
<tr><td class="k">Method</td><td>{{.Payment.Method}}{{with .Payment.CardLast4}} ending in {{.}}{{end}}</td></tr>
<tr><td class="k">Status</td><td>{{.Payment.Status}}</td></tr>
</table>

<h2>Verification code</h2>
<div class="code">{{.VerificationCode}}</div>

<h2>Cancellation policy</h2>
<p>{{.CancellationPolicy}}</p>
</body>
</html>
`))

// RenderHTML renders the printable booking page.
func RenderHTML(details domain.Details) (string, error) {
	var buf bytes.Buffer
	if err := detailsTemplate.Execute(&buf, details); err != nil {
		return "", fmt.Errorf("failed to render booking template: %w", err)
	}
	return buf.String(), nil
}

// RodRenderer prints booking pages to PDF with headless Chromium.
type RodRenderer struct {
	browserBin string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewRodRenderer creates a renderer. An empty browserBin lets rod find or download a browser.
func NewRodRenderer(browserBin string, timeout time.Duration) *RodRenderer {
	return &RodRenderer{
		browserBin: browserBin,
		timeout:    timeout,
		logger:     logger.Get(),
	}
}

// RenderPDF renders details to HTML and prints it.
func (r *RodRenderer) RenderPDF(ctx context.Context, details domain.Details) ([]byte, error) {
	html, err := RenderHTML(details)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if r.browserBin != "" {
		l = l.Bin(r.browserBin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load booking page: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}

	r.logger.Debug("Booking PDF rendered",
		zap.String("booking_id", details.BookingID),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, nil
}
