package app

import (
	"fmt"
	"strings"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
)

type notice struct {
	title    string
	customer string
	recycler string
	sms      bool
}

// {amount} is replaced with the event amount in cedis.
var notices = map[string]notice{
	"collection.pending": {
		title:    "Pickup requested",
		customer: "Your pickup request has been received. We will let you know when a recycler accepts it.",
	},
	"collection.accepted": {
		title:    "Pickup accepted",
		customer: "A recycler has accepted your EcoWasteGo pickup request.",
		recycler: "You accepted a new pickup. Start tracking when you head out.",
		sms:      true,
	},
	"collection.in_progress": {
		title:    "Pickup in progress",
		customer: "Your recycler has started the pickup.",
	},
	"collection.completed": {
		title:    "Pickup completed",
		customer: "Your EcoWasteGo pickup is complete. Thank you for recycling!",
		recycler: "Pickup marked as completed.",
		sms:      true,
	},
	"collection.cancelled": {
		title:    "Pickup cancelled",
		customer: "Your pickup request was cancelled.",
		recycler: "A pickup assigned to you was cancelled.",
	},
	"payment.pending": {
		title:    "Payment due",
		customer: "A payment of {amount} is due for your pickup.",
		recycler: "A payment of {amount} is pending for your pickup.",
	},
	"payment.confirmed": {
		title:    "Payment confirmed",
		customer: "You confirmed a payment of {amount}.",
		recycler: "The customer confirmed a payment of {amount}.",
	},
	"payment.completed": {
		title:    "Payment completed",
		customer: "Your payment of {amount} is complete. A receipt is on its way.",
		recycler: "You received a payment of {amount}.",
	},
	"payment.cancelled": {
		title:    "Payment cancelled",
		customer: "A payment of {amount} was cancelled.",
		recycler: "A payment of {amount} was cancelled.",
	},
}

func render(text string, ev mq.Event) string {
	return strings.ReplaceAll(text, "{amount}", fmt.Sprintf("GHS %.2f", ev.Amount))
}
