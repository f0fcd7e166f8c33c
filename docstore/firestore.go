package docstore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore maps collections onto Cloud Firestore collections.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore opens a client for projectID. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS) unless credentialsFile is set.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) Collection(name string) Collection {
	return &firestoreCollection{ref: f.client.Collection(name)}
}

func (f *Firestore) Close(context.Context) error {
	return f.client.Close()
}

type firestoreCollection struct {
	ref *firestore.CollectionRef
}

func (c *firestoreCollection) Add(ctx context.Context, fields Fields) (string, error) {
	doc, _, err := c.ref.Add(ctx, map[string]any(fields))
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (c *firestoreCollection) Set(ctx context.Context, id string, fields Fields) error {
	_, err := c.ref.Doc(id).Set(ctx, map[string]any(fields))
	return err
}

func (c *firestoreCollection) Get(ctx context.Context, id string) (*Document, error) {
	snap, err := c.ref.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (c *firestoreCollection) Update(ctx context.Context, id string, fields Fields) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}
	_, err := c.ref.Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (c *firestoreCollection) Delete(ctx context.Context, id string) error {
	_, err := c.ref.Doc(id).Delete(ctx)
	return err
}

func (c *firestoreCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	query := c.ref.Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.Order != nil {
		dir := firestore.Asc
		if q.Order.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.Order.Field, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}
