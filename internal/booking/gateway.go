package booking

import (
	"context"
	"strings"
)

// Charge is what the gateway sees of a submission.
type Charge struct {
	Reference  string
	CardNumber string
	Amount     float64
}

type PaymentGateway interface {
	Authorize(ctx context.Context, charge Charge) error
}

// SimulatedGateway approves every card except the configured test numbers.
// Nothing is charged.
type SimulatedGateway struct {
	declined map[string]struct{}
}

func NewSimulatedGateway(declinedCards []string) *SimulatedGateway {
	g := &SimulatedGateway{declined: make(map[string]struct{}, len(declinedCards))}
	for _, card := range declinedCards {
		g.declined[normalizeCard(card)] = struct{}{}
	}
	return g
}

func (g *SimulatedGateway) Authorize(ctx context.Context, charge Charge) error {
	if err := ctx.Err(); err != nil {
		return fromContext(err)
	}
	if _, ok := g.declined[normalizeCard(charge.CardNumber)]; ok {
		return &Error{Kind: KindPaymentDeclined, Message: "payment was declined, please use a different card"}
	}
	return nil
}

// normalizeCard drops the spaces and dashes people type between digit groups.
func normalizeCard(card string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, card)
}
