package users

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // makes database/sql point to SQLite

	"github.com/NCATS-Gamma/ginhashids/internal/hashids"
)

type User struct {
	hashids.Model
	// Replaces ID in JSON, not stored in db
	Hash string `db:"-" json:"id"`
	Name string `db:"name" json:"name"`
	// Link to the user resource, not stored in db
	URL string `db:"-" json:"url"`
}

// Store keeps users in SQLite.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens (and creates if needed) the database in file.
// ":memory:" gives a throwaway database.
func OpenStore(file string) (*Store, error) {
	if file != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Connect("sqlite3", file)
	if err != nil {
		return nil, err
	}
	// Every SQLite connection to ":memory:" is a different database
	db.SetMaxOpenConns(1)

	sqlStmt := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetUsers gets all users ordered by ID.
func (s *Store) GetUsers() ([]User, error) {
	users := []User{}
	err := s.db.Select(&users, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser gets a user by ID.
func (s *Store) GetUser(id int) (User, error) {
	var user User
	err := s.db.Get(&user, `SELECT id, name FROM users WHERE id=?`, id)
	if err == sql.ErrNoRows {
		return user, fmt.Errorf("Not Found: user does not exist")
	} else if err != nil {
		return user, err
	}
	return user, nil
}

// PostUser stores a new user and returns its ID.
func (s *Store) PostUser(user User) (int, error) {
	result, err := s.db.Exec(`INSERT INTO users(name) VALUES (?)`, user.Name)
	if err != nil {
		return -1, err
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return -1, err
	}
	return int(newID), nil
}

// PutUser renames an existing user.
func (s *Store) PutUser(user User) error {
	result, err := s.db.Exec(`UPDATE users SET name=? WHERE id=?`, user.Name, user.ID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// DeleteUser deletes the user with the given ID.
func (s *Store) DeleteUser(id int) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("Not Found: user does not exist")
	}
	return nil
}

// LoadSampleData adds John and Jane.
func (s *Store) LoadSampleData() error {
	for _, name := range []string{"John", "Jane"} {
		if _, err := s.PostUser(User{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
