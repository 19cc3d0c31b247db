package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuanvumaihuynh/brewery-api/internal/repository"
	"github.com/tuanvumaihuynh/brewery-api/pkg/outbox"
	"github.com/tuanvumaihuynh/brewery-api/pkg/ptr"
)

// hasText reports whether s contains a non-whitespace character.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// writeEvent stores ev in the outbox, keyed by the resource id so that
// changes to one record are published in order.
func writeEvent(
	ctx context.Context,
	outboxMsgRepo repository.OutboxMsgRepository,
	topic string,
	id int32,
	ev any,
) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := outboxMsgRepo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(strconv.Itoa(int(id))),
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
