// Package store persists the reading library: book records and their
// extracted content blobs.
//
// Records live in a single bbolt file. The books bucket holds the
// JSON-encoded library entries a listing UI needs; the content bucket holds
// each book's serialized ExtractionResult, which can be large (it carries
// the full text and fallback pages) and is only loaded when a book is
// opened.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/readlite/readlite/model"
)

var (
	booksBucket   = []byte("books")
	contentBucket = []byte("content")
)

// ErrNotFound is returned when a book id has no record.
var ErrNotFound = errors.New("store: book not found")

// Store is a bbolt-backed library store. It is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// Open opens (creating if needed) the library database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: creating data directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{booksBucket, contentBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating buckets: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves a book record together with its extracted content. The two
// writes share one transaction so a failure leaves no partial entry.
func (s *Store) Put(book *model.Book, content *model.ExtractionResult) error {
	bookData, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("store: encoding book: %w", err)
	}
	contentData, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("store: encoding content: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(booksBucket).Put([]byte(book.ID), bookData); err != nil {
			return err
		}
		return tx.Bucket(contentBucket).Put([]byte(book.ID), contentData)
	})
	if err != nil {
		return fmt.Errorf("store: saving book %s: %w", book.ID, err)
	}

	s.log.Info("book saved",
		zap.String("id", book.ID),
		zap.String("name", book.Name),
		zap.Int("words", book.Metadata.WordCount))
	return nil
}

// Get loads one book record.
func (s *Store) Get(id string) (*model.Book, error) {
	var book model.Book
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(booksBucket).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Content loads a book's extraction result.
func (s *Store) Content(id string) (*model.ExtractionResult, error) {
	var res model.ExtractionResult
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(contentBucket).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns all book records sorted by key order.
func (s *Store) List() ([]*model.Book, error) {
	var books []*model.Book
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).ForEach(func(_, v []byte) error {
			var b model.Book
			if err := json.Unmarshal(v, &b); err != nil {
				return err
			}
			books = append(books, &b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Delete removes a book record and its content.
func (s *Store) Delete(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(booksBucket).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(contentBucket).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("store: deleting book %s: %w", id, err)
	}
	s.log.Info("book deleted", zap.String("id", id))
	return nil
}

// UpdatePosition saves the reading position for a book.
func (s *Store) UpdatePosition(id string, pos model.ReadingPosition) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(booksBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var book model.Book
		if err := json.Unmarshal(data, &book); err != nil {
			return err
		}
		book.ReadingPosition = pos
		updated, err := json.Marshal(&book)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), updated)
	})
}
