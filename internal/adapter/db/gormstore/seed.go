package gormstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SeedUsers are the ten users the public JSONPlaceholder API serves.
var SeedUsers = []UserSchema{
	{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442"},
	{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv", Phone: "010-692-6593 x09125"},
	{ID: 3, Name: "Clementine Bauch", Email: "Nathan@yesenia.net", Phone: "1-463-123-4447"},
	{ID: 4, Name: "Patricia Lebsack", Email: "Julianne.OConner@kory.org", Phone: "493-170-9623 x156"},
	{ID: 5, Name: "Chelsey Dietrich", Email: "Lucio_Hettinger@annie.ca", Phone: "(254)954-1289"},
	{ID: 6, Name: "Mrs. Dennis Schulist", Email: "Karley_Dach@jasper.info", Phone: "1-477-935-8478 x6430"},
	{ID: 7, Name: "Kurtis Weissnat", Email: "Telly.Hoeger@billy.biz", Phone: "210.067.6132"},
	{ID: 8, Name: "Nicholas Runolfsdottir V", Email: "Sherwood@rosamond.me", Phone: "586.493.6943 x140"},
	{ID: 9, Name: "Glenna Reichert", Email: "Chaim_McDermott@dana.io", Phone: "(775)976-6794 x41206"},
	{ID: 10, Name: "Clementina DuBuque", Email: "Rey.Padberg@karina.biz", Phone: "024-648-3804"},
}

// Seed inserts SeedUsers when the users table is empty.
func (r *UserRepo) Seed(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&UserSchema{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		r.log.Debug("users table already populated, skipping seed", zap.Int64("count", count))
		return nil
	}

	rows := make([]UserSchema, len(SeedUsers))
	copy(rows, SeedUsers)
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// explicit ids do not advance a postgres serial
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))").Error; err != nil {
			return fmt.Errorf("failed to reset users id sequence: %w", err)
		}
	}

	r.log.Info("seeded users", zap.Int("count", len(rows)))
	return nil
}
