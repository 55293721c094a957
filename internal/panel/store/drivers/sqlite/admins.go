package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
)

const adminColumns = `id, username, password_hash, role, panel_name, inbound_id, flow, is_active, expires_at, created_at, updated_at`

type adminsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	now := toMillis(r.now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (`+adminColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Username,
		a.PasswordHash,
		string(a.Role),
		mapStringNull(a.PanelName),
		a.InboundID,
		a.Flow,
		a.IsActive,
		mapOptionalTime(a.ExpiresAt),
		now,
		now,
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
	a, err := scanAdmin(row)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return a, nil
}

func (r *adminsRepo) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *adminsRepo) DeleteAdmin(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE username = ?`, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanAdmin(row scanner) (domain.Admin, error) {
	var (
		a                    domain.Admin
		role                 string
		panel                sql.NullString
		expires              sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&role,
		&panel,
		&a.InboundID,
		&a.Flow,
		&a.IsActive,
		&expires,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Admin{}, err
	}
	a.Role = domain.Role(role)
	a.PanelName = panel.String
	a.ExpiresAt = mapNullTimePtr(expires)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
