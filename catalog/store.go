package catalog

import (
	"fmt"

	"github.com/foxcpp/po4man/internal/nroff/lexer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Message is the translation-memory row persisted for one extracted
// msgid: its source location, catalog type (paragraph, tbl table, ds
// <name>, groff code, …), and, once translated, its target-language
// string keyed by locale.
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	Msgid     string `gorm:"index;not null"`
	Type      string
	SourcePath string
	SourceLine int
	Comment   string
	Wrap      bool

	Translations []Translation `gorm:"foreignKey:MessageID"`
}

// Translation is one locale's rendering of a Message's msgid.
type Translation struct {
	ID        uint `gorm:"primaryKey"`
	MessageID uint `gorm:"index;not null"`
	Locale    string `gorm:"index;not null"`
	Msgstr    string
}

// Store is the gorm/sqlite-backed translation memory. It records every
// msgid a document extraction surfaces and answers locale-scoped lookups
// when applying a translation.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if absent) a sqlite-backed Store at path.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open catalog store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Message{}, &Translation{}); err != nil {
		return nil, fmt.Errorf("migrate catalog store: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts a Message for msgid, keyed by (msgid, source path, line),
// unless one with that key already exists; an existing row is left as is.
func (s *Store) Record(msgid, msgType string, ref lexer.SourceRef, comment string) error {
	msg := Message{
		Msgid:      msgid,
		Type:       msgType,
		SourcePath: ref.Path,
		SourceLine: ref.Line,
		Comment:    comment,
	}
	return s.db.Where(Message{Msgid: msgid, SourcePath: ref.Path, SourceLine: ref.Line}).
		FirstOrCreate(&msg).Error
}

// Lookup returns the Translation.Msgstr recorded for msgid in locale, or
// "" if none exists.
func (s *Store) Lookup(msgid, locale string) (string, error) {
	var msg Message
	err := s.db.Where("msgid = ?", msgid).
		Preload("Translations", "locale = ?", locale).
		First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	for _, t := range msg.Translations {
		if t.Locale == locale {
			return t.Msgstr, nil
		}
	}
	return "", nil
}

// SetTranslation upserts the msgstr for msgid in locale.
func (s *Store) SetTranslation(msgid, locale, msgstr string) error {
	var msg Message
	if err := s.db.Where("msgid = ?", msgid).First(&msg).Error; err != nil {
		return fmt.Errorf("set translation: %w", err)
	}
	t := Translation{MessageID: msg.ID, Locale: locale, Msgstr: msgstr}
	return s.db.Where(Translation{MessageID: msg.ID, Locale: locale}).
		Assign(Translation{Msgstr: msgstr}).
		FirstOrCreate(&t).Error
}

// All returns every Message currently recorded, for snapshot export.
func (s *Store) All() ([]Message, error) {
	var msgs []Message
	err := s.db.Preload("Translations").Find(&msgs).Error
	return msgs, err
}

// Close releases the underlying sql.DB connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
