package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
)

// ReadPayloads decodes one webhook payload or a JSON array of them. Missing
// events, timestamps and idempotency keys are filled in.
func ReadPayloads(r io.Reader, now time.Time) ([]types.WebhookPayload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read payloads: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("no payloads: %w", types.ErrInvalidPayload)
	}

	var payloads []types.WebhookPayload
	if raw[0] == '[' {
		err = json.Unmarshal(raw, &payloads)
	} else {
		var single types.WebhookPayload
		err = json.Unmarshal(raw, &single)
		payloads = []types.WebhookPayload{single}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidPayload, err)
	}

	for i := range payloads {
		p := &payloads[i]
		if p.Event == "" {
			p.Event = types.EventTransactionCreated
		}
		if p.Timestamp.IsZero() {
			p.Timestamp = now.UTC()
		}
		if p.IdempotencyKey == "" {
			p.IdempotencyKey = utils.NewIdempotencyKey(now)
		}
	}
	return payloads, nil
}
