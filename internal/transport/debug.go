package transport

import (
	"context"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"

	"github.com/oshokin/door-lock/internal/logger"
)

// debugLink logs every chunk that crosses the wrapped link.
type debugLink struct {
	Link

	// log receives one debug entry per Read or Write.
	log *zap.SugaredLogger
}

// Debug wraps link so every transferred chunk is logged at debug level as a hex dump.
// The dump is emitted even when the global level is higher.
func Debug(ctx context.Context, link Link) Link {
	return &debugLink{Link: link, log: logger.Tracer(ctx, "link")}
}

func (d *debugLink) Read(p []byte) (int, error) {
	n, err := d.Link.Read(p)
	if n > 0 {
		d.log.Debugw("rx", "bytes", n, "dump", hexDump(p[:n]))
	}

	return n, err
}

func (d *debugLink) Write(p []byte) (int, error) {
	n, err := d.Link.Write(p)
	if n > 0 {
		d.log.Debugw("tx", "bytes", n, "dump", hexDump(p[:n]))
	}

	return n, err
}

// hexDump lazily formats binary data like `hexdump -C`.
type hexDump []byte

func (h hexDump) String() string {
	var buf strings.Builder

	buf.WriteByte('\n')

	d := hex.Dumper(&buf)
	_, _ = d.Write(h)
	_ = d.Close()

	return buf.String()
}
