package clients

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

func NewNATSConn(url string) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("firebird"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				slog.Warn("[NATSClient] Disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("[NATSClient] Reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.Info("[NATSClient] Connection closed")
		}),
	}

	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("[NATSClient] unable to connect to NATS: %w", err)
	}

	slog.Info("[NATSClient] Connected", slog.String("url", nc.ConnectedUrl()))
	return nc, nil
}
