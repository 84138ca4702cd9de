package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/exachain/ibc-transfer/pkg/store"
)

const (
	nobleReceiver = "noble143h7yhvp595g905u49w8r34x6fc0x9tsvczknj"
	oraiReceiver  = "oraib1qpuundpvtymcyq3cmcty3udf2zy0m509e5jykd"
)

func txHash(i int) string {
	return fmt.Sprintf("0x%064x", i)
}

// prepareStore journals five transfers, alternating between the noble and
// oraichain profiles. The last one inserted has hash txHash(5).
func prepareStore(t *testing.T, ctx context.Context) (str *store.Store, cleanup func()) {
	t.Helper()
	testdb, cleanup := store.EnsureDB(t)
	s := store.NewStore(testdb)

	for i := 1; i <= 5; i++ {
		tr := models.Transfer{
			Hash:     txHash(i),
			Profile:  "oraichain",
			ChainID:  20250626,
			Sender:   "0x7eaf74eA145a5A81764EC2ce5fb40cd06DFDD18f",
			Receiver: oraiReceiver,
			Channel:  "channel-4",
			Denom:    "uusdx",
			Amount:   "20000",
			Status:   models.StatusConfirmed,
			// Postgres TIMESTAMPTZ precision is microseconds.
			CreatedAt: time.Now().UTC().Round(time.Microsecond),
		}
		if i%2 == 0 {
			tr.Profile = "noble"
			tr.Receiver = nobleReceiver
			tr.Channel = "channel-3"
			tr.Amount = "1000"
		}
		if err := s.InsertTransfer(ctx, tr); err != nil {
			cleanup()
			t.Fatalf("cannot insert transfer: %s", err)
		}
	}

	return s, cleanup
}
