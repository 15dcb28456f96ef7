package sheet

import (
	"context"
	"log/slog"
)

// MirroredStore writes every appended row to a secondary store as well,
// keeping a local copy of the worksheet for offline queries. Reads and
// the dedup index come from the primary only; a mirror write failure is
// logged, never surfaced.
type MirroredStore struct {
	primary Store
	mirror  Store
	logger  *slog.Logger
}

func NewMirroredStore(primary, mirror Store, logger *slog.Logger) *MirroredStore {
	return &MirroredStore{
		primary: primary,
		mirror:  mirror,
		logger:  logger.With("component", "mirror", "worksheet", primary.Name()),
	}
}

func (m *MirroredStore) Name() string { return m.primary.Name() }

func (m *MirroredStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	return m.primary.ReadAllRows(ctx)
}

func (m *MirroredStore) AppendRow(ctx context.Context, row []string) error {
	if err := m.primary.AppendRow(ctx, row); err != nil {
		return err
	}
	if err := m.mirror.AppendRow(ctx, row); err != nil {
		m.logger.Warn("mirror append failed", "error", err)
	}
	return nil
}

func (m *MirroredStore) Close() error {
	err := m.primary.Close()
	if merr := m.mirror.Close(); merr != nil {
		m.logger.Warn("mirror close failed", "error", merr)
	}
	return err
}
