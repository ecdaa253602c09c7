package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/parlons-ai/parlons-player/pkg/lesson"
)

// Store persists saved lessons, audio payloads included, in a sqlite
// database. The playback engine never touches it; the application wires
// the two together.
type Store struct {
	db *sql.DB
}

// LessonInfo is a listing row for a saved lesson.
type LessonInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Segments  int       `json:"segments"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSQLite(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	s := &Store{db: sqlDB}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS segments (
		id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		french_text TEXT NOT NULL,
		english_text TEXT NOT NULL,
		french_audio BLOB,
		english_audio BLOB,
		FOREIGN KEY (lesson_id) REFERENCES lessons(id),
		UNIQUE(lesson_id, position)
	);

	CREATE TABLE IF NOT EXISTS vocab_items (
		id TEXT PRIMARY KEY,
		segment_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		french_text TEXT NOT NULL,
		english_text TEXT NOT NULL,
		french_audio BLOB,
		english_audio BLOB,
		FOREIGN KEY (segment_id) REFERENCES segments(id),
		UNIQUE(segment_id, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save writes the whole lesson in one transaction, replacing any previous
// copy under the same id.
func (s *Store) Save(l *lesson.Lesson) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteLesson(tx, l.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO lessons (id, title) VALUES (?, ?)",
		l.ID, l.Title,
	); err != nil {
		return err
	}

	for i, seg := range l.Segments {
		if _, err := tx.Exec(`
			INSERT INTO segments (id, lesson_id, position, french_text, english_text, french_audio, english_audio)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, l.ID, i, seg.FrenchText, seg.EnglishText, seg.FrenchAudio, seg.EnglishAudio,
		); err != nil {
			return err
		}
		for j, item := range seg.Vocab {
			if _, err := tx.Exec(`
				INSERT INTO vocab_items (id, segment_id, position, french_text, english_text, french_audio, english_audio)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				item.ID, seg.ID, j, item.FrenchText, item.EnglishText, item.FrenchAudio, item.EnglishAudio,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Get loads a saved lesson with all of its audio payloads.
func (s *Store) Get(id string) (*lesson.Lesson, error) {
	l := &lesson.Lesson{ID: id}
	err := s.db.QueryRow("SELECT title FROM lessons WHERE id = ?", id).Scan(&l.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, french_text, english_text, french_audio, english_audio
		FROM segments WHERE lesson_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seg lesson.Segment
		if err := rows.Scan(&seg.ID, &seg.FrenchText, &seg.EnglishText, &seg.FrenchAudio, &seg.EnglishAudio); err != nil {
			return nil, err
		}
		l.Segments = append(l.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range l.Segments {
		if err := s.loadVocab(&l.Segments[i]); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (s *Store) loadVocab(seg *lesson.Segment) error {
	rows, err := s.db.Query(`
		SELECT id, french_text, english_text, french_audio, english_audio
		FROM vocab_items WHERE segment_id = ? ORDER BY position ASC`, seg.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item lesson.VocabItem
		if err := rows.Scan(&item.ID, &item.FrenchText, &item.EnglishText, &item.FrenchAudio, &item.EnglishAudio); err != nil {
			return err
		}
		seg.Vocab = append(seg.Vocab, item)
	}
	return rows.Err()
}

// List returns saved lessons ordered by creation time.
func (s *Store) List() ([]LessonInfo, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.title, l.created_at, COUNT(s.id)
		FROM lessons l LEFT JOIN segments s ON s.lesson_id = l.id
		GROUP BY l.id ORDER BY l.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []LessonInfo
	for rows.Next() {
		var info LessonInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.CreatedAt, &info.Segments); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if infos == nil {
		infos = []LessonInfo{}
	}
	return infos, rows.Err()
}

// Rename updates a saved lesson's title.
func (s *Store) Rename(id, title string) error {
	res, err := s.db.Exec("UPDATE lessons SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("lesson %s not found", id)
	}
	return nil
}

// Delete removes a saved lesson and all of its segments and vocabulary.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deleteLesson(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteLesson(tx *sql.Tx, id string) error {
	if _, err := tx.Exec(
		"DELETE FROM vocab_items WHERE segment_id IN (SELECT id FROM segments WHERE lesson_id = ?)", id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM segments WHERE lesson_id = ?", id); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM lessons WHERE id = ?", id)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
