package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/marcadamcarter/pantry-scanner/internal/model"
	"github.com/marcadamcarter/pantry-scanner/internal/service"
)

// DigestWorker builds the periodic expiration digest and hands it to the
// email queue. It reads inventory state at processing time, so a digest job
// enqueued hours ago still reports current data.
type DigestWorker struct {
	inventory  service.InventoryService
	dispatcher *Dispatcher
	recipient  string
}

func NewDigestWorker(inventory service.InventoryService, dispatcher *Dispatcher, recipient string) *DigestWorker {
	return &DigestWorker{inventory: inventory, dispatcher: dispatcher, recipient: recipient}
}

func (w *DigestWorker) Process(ctx context.Context, _ json.RawMessage) error {
	if w.recipient == "" {
		log.Warn().Msg("digest requested but no recipient configured, skipping")
		return nil
	}

	expiring, err := w.inventory.ListExpiring(ctx, model.SoonWindowDays)
	if err != nil {
		return fmt.Errorf("digest: listing expiring lots: %w", err)
	}
	lowStock, err := w.inventory.LowStockItems(ctx)
	if err != nil {
		return fmt.Errorf("digest: listing low-stock items: %w", err)
	}
	if len(expiring) == 0 && len(lowStock) == 0 {
		log.Info().Msg("digest: nothing expiring and nothing low, skipping email")
		return nil
	}

	var b strings.Builder
	b.WriteString("Pantry digest for " + time.Now().Format("Mon, Jan 2 2006") + "\n\n")

	if len(expiring) > 0 {
		b.WriteString("Expiring lots:\n")
		for _, lot := range expiring {
			name := lot.ItemName
			if name == "" {
				name = "(unnamed item)"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s (%s)\n",
				name, lot.ExpirationDate.Format("2006-01-02"), lot.ExpiryStatus))
		}
		b.WriteString("\n")
	}

	if len(lowStock) > 0 {
		b.WriteString("Running low:\n")
		for _, item := range lowStock {
			name := item.Name
			if name == "" {
				name = "(unnamed item)"
			}
			b.WriteString(fmt.Sprintf("  - %s: %d on hand, par %d\n",
				name, item.Quantity, item.ParLevel))
		}
	}

	payload := EmailJobPayload{
		To:      w.recipient,
		Subject: fmt.Sprintf("Pantry digest: %d expiring, %d low", len(expiring), len(lowStock)),
		Body:    b.String(),
	}
	if err := w.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		return fmt.Errorf("digest: enqueueing email: %w", err)
	}
	log.Info().Int("expiring", len(expiring)).Int("lowStock", len(lowStock)).Msg("digest email enqueued")
	return nil
}
