package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/MePrince47/JoeZik/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB creates the schema if it doesn't exist and seeds the default
// playlist. The unique index on track_votes(track_id, user_id) is the
// arbiter of the one-vote-per-user rule; the application never relies on
// check-then-insert.
func InitDB(cfg *config.Config) error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createPlaylistsTable(); err != nil {
		return err
	}
	if err := createTracksTable(); err != nil {
		return err
	}
	if err := createTrackVotesTable(); err != nil {
		return err
	}
	if err := createAudioFilesTable(); err != nil {
		return err
	}

	if err := seedDefaultPlaylist(cfg); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(767) NOT NULL DEFAULT '',
		points INT NOT NULL DEFAULT 0,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createPlaylistsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlists (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		image_url VARCHAR(767) NOT NULL DEFAULT '',
		owner_id INT NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_playlist_owner FOREIGN KEY (owner_id) REFERENCES users(id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create playlists table: %w", err)
	}
	return nil
}

func createTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		cover_url VARCHAR(767) NOT NULL,
		duration INT NOT NULL,
		source VARCHAR(16) NOT NULL,
		source_url VARCHAR(767) NOT NULL,
		playlist_id INT NOT NULL,
		added_by_id INT NOT NULL,
		added_by VARCHAR(100) NOT NULL,
		vote_score INT NOT NULL DEFAULT 0,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_track_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(id),
		CONSTRAINT fk_track_user FOREIGN KEY (added_by_id) REFERENCES users(id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}
	return nil
}

func createTrackVotesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS track_votes (
		id INT AUTO_INCREMENT PRIMARY KEY,
		track_id INT NOT NULL,
		user_id INT NOT NULL,
		voted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT uq_track_user UNIQUE (track_id, user_id),
		CONSTRAINT fk_vote_track FOREIGN KEY (track_id) REFERENCES tracks(id),
		CONSTRAINT fk_vote_user FOREIGN KEY (user_id) REFERENCES users(id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create track_votes table: %w", err)
	}
	return nil
}

func createAudioFilesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audio_files (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(100) NOT NULL,
		size BIGINT NOT NULL,
		object_key VARCHAR(767) NOT NULL,
		file_path VARCHAR(767) NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		uploaded_by INT NOT NULL,
		CONSTRAINT fk_audio_user FOREIGN KEY (uploaded_by) REFERENCES users(id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create audio_files table: %w", err)
	}
	return nil
}

// seedDefaultPlaylist makes sure at least one public playlist exists so the
// client always has a queue to join. It creates a system user to own it when
// the database is empty.
func seedDefaultPlaylist(cfg *config.Config) error {
	var count int
	if err := DB.QueryRow("SELECT COUNT(*) FROM playlists").Scan(&count); err != nil {
		return fmt.Errorf("failed to count playlists: %w", err)
	}
	if count > 0 {
		return nil
	}

	var ownerID int64
	err := DB.QueryRow("SELECT id FROM users ORDER BY id LIMIT 1").Scan(&ownerID)
	if err == sql.ErrNoRows {
		res, insErr := DB.Exec(
			"INSERT INTO users (username, email, password_hash, avatar_url, is_admin) VALUES (?, ?, ?, ?, TRUE)",
			"joezik", "system@joezik.local", "!", "")
		if insErr != nil {
			return fmt.Errorf("failed to insert system user: %w", insErr)
		}
		ownerID, insErr = res.LastInsertId()
		if insErr != nil {
			return fmt.Errorf("failed to get system user ID: %w", insErr)
		}
		log.Printf("System user created with ID: %d", ownerID)
	} else if err != nil {
		return fmt.Errorf("failed to look up playlist owner: %w", err)
	}

	res, err := DB.Exec(
		"INSERT INTO playlists (title, description, image_url, owner_id, is_public) VALUES (?, ?, ?, ?, TRUE)",
		cfg.DefaultPlaylistTitle, "Shared queue, add your tracks and vote!", "", ownerID)
	if err != nil {
		return fmt.Errorf("failed to seed default playlist: %w", err)
	}
	id, _ := res.LastInsertId()
	log.Printf("Default playlist %q created with ID: %d", cfg.DefaultPlaylistTitle, id)
	return nil
}
