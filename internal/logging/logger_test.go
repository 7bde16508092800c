package logging

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	if got := FromContext(context.Background()); got != DefaultLogger() {
		t.Errorf("got %p, want default logger %p", got, DefaultLogger())
	}

	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, DefaultPrefix, log.Lmsgprefix)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Printf("refresh %s", "MSFT")

	if diff := cmp.Diff("Symwatch: refresh MSFT\n", buf.String()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}
