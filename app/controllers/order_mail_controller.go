package controllers

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mkraiem/boutiqa/internal/pkg/env"
	"github.com/mkraiem/boutiqa/internal/pkg/mail"
)

// OrderMailController forwards order requests from the shop front to
// the configured sales mailbox.
type OrderMailController struct {
	validate *validator.Validate
	send     func(to, replyTo, subject, body string) error
}

func NewOrderMailController() *OrderMailController {
	return &OrderMailController{
		validate: validator.New(),
		send:     mail.SendMail,
	}
}

type orderMailBody struct {
	Email            string  `json:"email" validate:"required,email"`
	Phone            string  `json:"phone" validate:"required,max=50"`
	ProductName      string  `json:"product_name" validate:"required,max=500"`
	ProductReference *string `json:"product_reference" validate:"omitempty,max=255"`
	Subject          *string `json:"subject" validate:"omitempty,max=255"`
}

// HandleSend validates the order request and emails it. Validation
// failures are reported verbatim; transport failures stay generic
// outside dev.
func (oc *OrderMailController) HandleSend(c *fiber.Ctx) error {
	var body orderMailBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if err := oc.validate.Struct(&body); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	subject := fmt.Sprintf("New order request: %s", body.ProductName)
	if body.Subject != nil && *body.Subject != "" {
		subject = *body.Subject
	}

	to := env.GetEnv("ORDER_MAIL_TO", env.GetEnv("SMTP_SENDER", ""))
	if to == "" {
		return internalError(c, fmt.Errorf("order mailbox not configured"))
	}

	if err := oc.send(to, body.Email, subject, renderOrderMail(body)); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Order request sent"})
}

// renderOrderMail builds the HTML body of the order notification.
func renderOrderMail(body orderMailBody) string {
	var b strings.Builder
	b.WriteString("<h2>New order request</h2>")
	b.WriteString("<table cellpadding=\"6\">")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", label, html.EscapeString(value))
	}
	row("Product", body.ProductName)
	if body.ProductReference != nil {
		row("Reference", *body.ProductReference)
	}
	row("Email", body.Email)
	row("Phone", body.Phone)
	row("Received", time.Now().Format("2006-01-02 15:04"))
	b.WriteString("</table>")
	return b.String()
}

// validationMessage flattens validator errors into one client-facing
// line per failed field.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email address", strings.ToLower(fe.Field())))
		case "max":
			parts = append(parts, fmt.Sprintf("%s is too long", strings.ToLower(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(parts, "; ")
}
