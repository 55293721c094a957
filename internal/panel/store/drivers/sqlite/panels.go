package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
)

const panelColumns = `id, name, type, url, sub_url, username, password_sealed, totp_sealed, is_active, created_at, updated_at`

type panelsRepo struct {
	db     *sql.DB
	sealer Sealer
	now    func() time.Time
}

func (r *panelsRepo) CreatePanel(ctx context.Context, p domain.Panel) error {
	password, err := r.sealer.Seal(p.Password)
	if err != nil {
		return fmt.Errorf("sqlite: seal panel password: %w", err)
	}
	totp := ""
	if p.TOTPSecret != "" {
		if totp, err = r.sealer.Seal(p.TOTPSecret); err != nil {
			return fmt.Errorf("sqlite: seal panel totp secret: %w", err)
		}
	}

	now := toMillis(r.now())
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO panels (`+panelColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.Type,
		p.URL,
		p.SubURL,
		p.Username,
		password,
		totp,
		p.IsActive,
		now,
		now,
	)
	return mapConstraint(err)
}

func (r *panelsRepo) GetPanelByName(ctx context.Context, name string) (domain.Panel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+panelColumns+` FROM panels WHERE name = ?`, name)
	p, err := r.scanPanel(row)
	if err != nil {
		return domain.Panel{}, mapNotFound(err)
	}
	return p, nil
}

func (r *panelsRepo) ListPanels(ctx context.Context) ([]domain.Panel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+panelColumns+` FROM panels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Panel, 0)
	for rows.Next() {
		p, err := r.scanPanel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *panelsRepo) DeletePanel(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM panels WHERE name = ?`, name)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *panelsRepo) scanPanel(row scanner) (domain.Panel, error) {
	var (
		p                    domain.Panel
		password, totp       string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.URL,
		&p.SubURL,
		&p.Username,
		&password,
		&totp,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Panel{}, err
	}

	if p.Password, err = r.sealer.Open(password); err != nil {
		return domain.Panel{}, fmt.Errorf("sqlite: open panel %q password: %w", p.Name, err)
	}
	if totp != "" {
		if p.TOTPSecret, err = r.sealer.Open(totp); err != nil {
			return domain.Panel{}, fmt.Errorf("sqlite: open panel %q totp secret: %w", p.Name, err)
		}
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
