package mirror

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/vonshlovens/fretlog/internal/model"
)

// UpsertGuitar inserts or updates a guitar row
func (m *Mirror) UpsertGuitar(ctx context.Context, g model.Guitar) error {
	_, err := m.Pool.Exec(ctx, `
		INSERT INTO guitars (
			id, maker, model, string_specs, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (id) DO UPDATE SET
			maker = EXCLUDED.maker,
			model = EXCLUDED.model,
			string_specs = EXCLUDED.string_specs,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`,
		g.ID, g.Maker, g.Model, g.StringSpecs, g.CreatedAt, g.UpdatedAt,
	)

	return err
}

// UpsertLog inserts or updates a maintenance log row
func (m *Mirror) UpsertLog(ctx context.Context, l model.MaintenanceLog) error {
	_, err := m.Pool.Exec(ctx, `
		INSERT INTO maintenance_logs (
			id, guitar_id, maintenance_date, type_of_work, notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (id) DO UPDATE SET
			guitar_id = EXCLUDED.guitar_id,
			maintenance_date = EXCLUDED.maintenance_date,
			type_of_work = EXCLUDED.type_of_work,
			notes = EXCLUDED.notes,
			created_at = EXCLUDED.created_at
	`,
		l.ID, l.GuitarID, l.MaintenanceDate, l.TypeOfWork, l.Notes, l.CreatedAt,
	)

	return err
}

// DeleteGuitar removes a guitar row. Its maintenance logs go with it
// through the foreign key cascade.
func (m *Mirror) DeleteGuitar(ctx context.Context, id string) error {
	_, err := m.Pool.Exec(ctx, "DELETE FROM guitars WHERE id = $1", id)
	return err
}

// DeleteLog removes a maintenance log row
func (m *Mirror) DeleteLog(ctx context.Context, id string) error {
	_, err := m.Pool.Exec(ctx, "DELETE FROM maintenance_logs WHERE id = $1", id)
	return err
}

// FetchState downloads the full remote state, ordered by creation time
// so the result approximates the original insertion order.
func (m *Mirror) FetchState(ctx context.Context) (model.AppState, error) {
	state := model.AppState{
		Guitars:         []model.Guitar{},
		MaintenanceLogs: []model.MaintenanceLog{},
	}

	rows, err := m.Pool.Query(ctx, `
		SELECT id, maker, model, string_specs, created_at, updated_at
		FROM guitars ORDER BY created_at, id
	`)
	if err != nil {
		return state, fmt.Errorf("failed to fetch guitars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		g := model.Guitar{}
		if err := rows.Scan(&g.ID, &g.Maker, &g.Model, &g.StringSpecs, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return state, err
		}
		state.Guitars = append(state.Guitars, g)
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	logRows, err := m.Pool.Query(ctx, `
		SELECT id, guitar_id, maintenance_date, type_of_work, notes, created_at
		FROM maintenance_logs ORDER BY created_at, id
	`)
	if err != nil {
		return state, fmt.Errorf("failed to fetch maintenance logs: %w", err)
	}
	defer logRows.Close()

	for logRows.Next() {
		l := model.MaintenanceLog{}
		if err := logRows.Scan(&l.ID, &l.GuitarID, &l.MaintenanceDate, &l.TypeOfWork, &l.Notes, &l.CreatedAt); err != nil {
			return state, err
		}
		state.MaintenanceLogs = append(state.MaintenanceLogs, l)
	}

	return state, logRows.Err()
}

// PushState uploads every local record to the mirror. Guitars go first
// so the log foreign keys resolve.
func (m *Mirror) PushState(ctx context.Context, state model.AppState) error {
	total := len(state.Guitars) + len(state.MaintenanceLogs)
	if total == 0 {
		return nil
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Pushing records"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	for _, g := range state.Guitars {
		if err := m.UpsertGuitar(ctx, g); err != nil {
			return fmt.Errorf("failed to push guitar %s: %w", g.ID, err)
		}
		bar.Add(1)
	}

	for _, l := range state.MaintenanceLogs {
		if err := m.UpsertLog(ctx, l); err != nil {
			return fmt.Errorf("failed to push maintenance log %s: %w", l.ID, err)
		}
		bar.Add(1)
	}

	bar.Finish()
	return nil
}
