package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
)

type attemptDoc struct {
	Username    string    `json:"username"`
	Success     bool      `json:"success"`
	AttemptTime time.Time `json:"attempt_time"`
}

// Indexer mirrors recorded login attempts into Elasticsearch for
// security analytics. Write failures are the caller's to log; nothing
// here is on the authentication path.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("audit: elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("audit: elasticsearch error: %s", res.Status())
	}

	return client, nil
}

func (ix *Indexer) IndexAttempt(ctx context.Context, username string, success bool, at time.Time) error {
	doc, err := json.Marshal(attemptDoc{Username: username, Success: success, AttemptTime: at.UTC()})
	if err != nil {
		return fmt.Errorf("audit: marshal attempt: %w", err)
	}

	res, err := ix.ES.Index(ix.Index, bytes.NewReader(doc), ix.ES.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("audit: index attempt: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("audit: index attempt: %s", res.Status())
	}
	return nil
}
