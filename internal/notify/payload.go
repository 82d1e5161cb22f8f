package notify

import (
	"fmt"
	"time"

	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
)

// Event names carried in the generic payload and the X-Webhook-Event header.
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

type genericPayload struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Order     orderView `json:"order"`
}

type orderView struct {
	ID         string          `json:"id"`
	UniqueID   string          `json:"unique_id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Phone      string          `json:"phone"`
	Status     string          `json:"status"`
	Previous   string          `json:"previous_status,omitempty"`
	TotalPrice string          `json:"total_price"`
	Items      []orderItemView `json:"items"`
}

type orderItemView struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Discord webhook bodies, per the discord.com/developers embed object.
type discordPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title  string              `json:"title"`
	Color  int                 `json:"color"`
	Fields []discordEmbedField `json:"fields"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

const (
	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
)

func buildGenericPayload(event string, order *models.Order, previous enums.OrderStatus) genericPayload {
	view := orderView{
		ID:         order.ID.String(),
		UniqueID:   order.UniqueID,
		FirstName:  order.FirstName,
		LastName:   order.LastName,
		Phone:      order.Phone,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice.String(),
	}
	if event == EventOrderStatusChanged {
		view.Previous = string(previous)
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderItemView{
			Name:      item.Name,
			Category:  item.Category,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
		})
	}
	return genericPayload{Event: event, Timestamp: time.Now().UTC(), Order: view}
}

func buildDiscordPayload(event string, order *models.Order, previous enums.OrderStatus) discordPayload {
	embed := discordEmbed{
		Fields: []discordEmbedField{
			{Name: "Client", Value: fmt.Sprintf("%s %s", order.FirstName, order.LastName), Inline: true},
			{Name: "Téléphone", Value: order.Phone, Inline: true},
			{Name: "Identifiant", Value: order.UniqueID, Inline: true},
			{Name: "Total", Value: order.TotalPrice.String() + " $", Inline: true},
		},
	}
	for _, item := range order.Items {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  item.Name,
			Value: fmt.Sprintf("%d x %s $", item.Quantity, item.UnitPrice.String()),
		})
	}

	switch event {
	case EventOrderCreated:
		embed.Title = "🛒 Nouvelle commande"
		embed.Color = colorBlue
	case EventOrderStatusChanged:
		switch order.Status {
		case enums.OrderStatusDelivered:
			embed.Title = "✅ Commande livrée"
			embed.Color = colorGreen
		case enums.OrderStatusCancelled:
			embed.Title = "❌ Commande annulée"
			embed.Color = colorRed
			if order.CancelReason != nil {
				embed.Fields = append(embed.Fields, discordEmbedField{Name: "Raison", Value: *order.CancelReason})
			}
		}
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "Statut",
			Value:  fmt.Sprintf("%s → %s", previous, order.Status),
			Inline: true,
		})
	}
	return discordPayload{Username: "Elite Vinewood RS", Embeds: []discordEmbed{embed}}
}
