// Package notify formats the order summary that is handed to the restaurant
// over a WhatsApp deep link.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
)

// OrderMessage renders the human-readable order summary sent to the
// restaurant's WhatsApp number.
func OrderMessage(order *models.Order) string {
	var items strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&items, "\n- %s × %d = ₹%d", it.DishName, it.Quantity, it.Quantity*it.Price)
	}

	return fmt.Sprintf(`🟢 New Order – Mission Shakti Cafe

👤 Name: %s
📞 Phone: %s
🏠 Address: %s

🍽 Items:%s

💰 Total: ₹%d
🚚 Delivery Time: 30 Minutes
💵 Payment: %s
`, order.CustomerName, order.Phone, order.Address, items.String(), order.TotalAmount, order.PaymentMethod)
}

// WhatsAppLink builds the wa.me deep link that opens a chat with the
// restaurant, pre-filled with the message.
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}
