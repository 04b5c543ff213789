package mailer

import (
	"bytes"
	"html/template"
	"time"
)

var tmpl = template.Must(template.New("mail").Parse(`
{{define "layout_head"}}
<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #1E3A8A; color: white; padding: 20px; text-align: center; }
  .content { padding: 20px; background: #f9f9f9; }
  .footer { background: #333; color: white; padding: 10px; text-align: center; }
  .status { background: #2563EB; color: white; padding: 10px; border-radius: 5px; text-align: center; margin: 20px 0; }
  table { width: 100%; border-collapse: collapse; margin: 20px 0; }
  th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
  th { background-color: #f2f2f2; }
  .total { font-weight: bold; font-size: 1.2em; }
</style>
</head>
<body>
<div class="container">
{{end}}

{{define "layout_foot"}}
  <div class="footer">
    <p>&copy; {{.Year}} Techno Computers. All rights reserved.</p>
  </div>
</div>
</body>
</html>
{{end}}

{{define "welcome"}}
{{template "layout_head" .}}
  <div class="header"><h1>Welcome to Techno Computers!</h1></div>
  <div class="content">
    <h2>Hello {{.Name}}!</h2>
    <p>Thank you for joining Techno Computers. We're excited to have you as part of our community!</p>
    <p>You can now:</p>
    <ul>
      <li>Browse our extensive collection of computer products</li>
      <li>Add items to your cart and place orders</li>
      <li>Track your order history</li>
      <li>Manage your profile and preferences</li>
    </ul>
    <p>If you have any questions, feel free to contact our support team.</p>
    <p>Happy shopping!</p>
  </div>
{{template "layout_foot" .}}
{{end}}

{{define "order_confirmation"}}
{{template "layout_head" .}}
  <div class="header"><h1>Order Confirmation</h1></div>
  <div class="content">
    <h2>Hello {{.Name}}!</h2>
    <p>Thank you for your order! Your order has been confirmed and is being processed.</p>
    <h3>Order Details:</h3>
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Order Date:</strong> {{.Date}}</p>
    <h3>Items Ordered:</h3>
    <table>
      <thead>
        <tr><th>Product</th><th>Quantity</th><th>Price</th><th>Total</th></tr>
      </thead>
      <tbody>
        {{range .Lines}}
        <tr>
          <td>{{.Name}}</td>
          <td>{{.Quantity}}</td>
          <td>Rs. {{printf "%.2f" .Price}}</td>
          <td>Rs. {{printf "%.2f" .LineTotal}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <p class="total">Total Amount: Rs. {{printf "%.2f" .Total}}</p>
    <p>We'll send you another email when your order ships. You can track your order status in your account.</p>
    <p>Thank you for choosing Techno Computers!</p>
  </div>
{{template "layout_foot" .}}
{{end}}

{{define "order_status"}}
{{template "layout_head" .}}
  <div class="header"><h1>Order Status Update</h1></div>
  <div class="content">
    <h2>Hello {{.Name}}!</h2>
    <p>We have an update on your order <strong>{{.OrderNumber}}</strong>.</p>
    <div class="status"><h3>Status: {{.Status}}</h3></div>
    <p>{{.StatusMessage}}</p>
    <p>You can track your order status anytime by logging into your account.</p>
    <p>Thank you for choosing Techno Computers!</p>
  </div>
{{template "layout_foot" .}}
{{end}}

{{define "contact_admin"}}
{{template "layout_head" .}}
  <div class="header"><h1>New Contact Form Submission</h1></div>
  <div class="content">
    <p><strong>Name:</strong> {{.Contact.Name}}</p>
    <p><strong>Email:</strong> {{.Contact.Email}}</p>
    <p><strong>Subject:</strong> {{.Contact.Subject}}</p>
    <h3>Message:</h3>
    <p style="white-space: pre-wrap;">{{.Contact.Message}}</p>
  </div>
{{template "layout_foot" .}}
{{end}}

{{define "contact_ack"}}
{{template "layout_head" .}}
  <div class="header"><h1>Thank you for your message!</h1></div>
  <div class="content">
    <p>Dear {{.Contact.Name}},</p>
    <p>We have received your message and will get back to you as soon as possible.</p>
    <p><strong>Your message:</strong></p>
    <p style="white-space: pre-wrap;">{{.Contact.Message}}</p>
    <p>Our team typically responds within 24-48 hours during business days.</p>
    <p>Best regards,<br>Techno Computers Support Team</p>
  </div>
{{template "layout_foot" .}}
{{end}}
`))

var statusMessages = map[string]string{
	"processing": "Your order is now being processed and will be shipped soon.",
	"shipped":    "Great news! Your order has been shipped and is on its way to you.",
	"delivered":  "Your order has been delivered successfully. Thank you for shopping with us!",
	"cancelled":  "Your order has been cancelled. If you have any questions, please contact our support team.",
}

type confirmationLine struct {
	Name      string
	Quantity  int
	Price     float64
	LineTotal float64
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderWelcome(name string) (string, error) {
	return render("welcome", struct {
		Name string
		Year int
	}{name, time.Now().Year()})
}

func renderOrderConfirmation(name, orderNumber string, total float64, lines []OrderLine) (string, error) {
	rows := make([]confirmationLine, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, confirmationLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			LineTotal: l.Price * float64(l.Quantity),
		})
	}
	return render("order_confirmation", struct {
		Name        string
		OrderNumber string
		Date        string
		Lines       []confirmationLine
		Total       float64
		Year        int
	}{name, orderNumber, time.Now().Format("January 2, 2006"), rows, total, time.Now().Year()})
}

func renderOrderStatusUpdate(name, orderNumber, status string) (string, error) {
	msg, ok := statusMessages[status]
	if !ok {
		msg = "Your order status has been updated."
	}
	return render("order_status", struct {
		Name          string
		OrderNumber   string
		Status        string
		StatusMessage string
		Year          int
	}{name, orderNumber, status, msg, time.Now().Year()})
}

func renderContactAdmin(c ContactMessage) (string, error) {
	return render("contact_admin", struct {
		Contact ContactMessage
		Year    int
	}{c, time.Now().Year()})
}

func renderContactAck(c ContactMessage) (string, error) {
	return render("contact_ack", struct {
		Contact ContactMessage
		Year    int
	}{c, time.Now().Year()})
}
