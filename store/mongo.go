package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/mgo.v2"

	"github.com/wikigold/go-wikiparse"
)

// Titles are unique since the title is the URL path in wikimedia.
var titleIndex = mgo.Index{
	Key:        []string{"title"},
	Unique:     true,
	DropDups:   true,
	Background: true,
	Sparse:     true,
}

type mongoSink struct {
	session *mgo.Session
	c       *mgo.Collection
	logger  *zap.Logger
}

// NewMongo gets a Sink inserting into a MongoDB collection. Articles
// already stored under the same title are skipped.
func NewMongo(url, db, collection string, logger *zap.Logger) (Sink, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo at %v: %w", url, err)
	}
	c := session.DB(db).C(collection)
	if err := c.EnsureIndex(titleIndex); err != nil {
		session.Close()
		return nil, fmt.Errorf("creating title index: %w", err)
	}
	return &mongoSink{session: session, c: c, logger: logger}, nil
}

func (s *mongoSink) Put(_ context.Context, a *wikiparse.Article) error {
	err := s.c.Insert(NewRecord(a))
	if mgo.IsDup(err) {
		s.logger.Debug("Duplicate key", zap.String("title", a.Title))
		return nil
	}
	return err
}

func (s *mongoSink) Close() error {
	s.session.Close()
	return nil
}
