// Package search keeps an Elasticsearch index of the catalogue for free-text
// book search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

const requestTimeout = 3 * time.Second

const indexMapping = `{
  "mappings": {
    "properties": {
      "title":               {"type": "text"},
      "description":         {"type": "text"},
      "isbn":                {"type": "keyword"},
      "author":              {"type": "text"},
      "publishing_company":  {"type": "text"},
      "genre":               {"type": "keyword"},
      "year_of_publication": {"type": "integer"},
      "number_of_pages":     {"type": "integer"},
      "average_grade":       {"type": "scaled_float", "scaling_factor": 100},
      "created_at":          {"type": "date"}
    }
  }
}`

type BookIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewBookIndex(es *elasticsearch.Client, index string) *BookIndex {
	return &BookIndex{es: es, index: index}
}

type bookDocument struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ISBN              string    `json:"isbn"`
	Author            string    `json:"author"`
	PublishingCompany string    `json:"publishing_company"`
	Genre             string    `json:"genre"`
	YearOfPublication int       `json:"year_of_publication"`
	NumberOfPages     int       `json:"number_of_pages"`
	AverageGrade      float64   `json:"average_grade"`
	CreatedAt         time.Time `json:"created_at"`
}

func newBookDocument(b *entity.Book) bookDocument {
	return bookDocument{
		Title:             b.Title(),
		Description:       b.Description(),
		ISBN:              b.ISBN(),
		Author:            b.Author(),
		PublishingCompany: b.PublishingCompany(),
		Genre:             b.Genre().String(),
		YearOfPublication: b.YearOfPublication(),
		NumberOfPages:     b.NumberOfPages(),
		AverageGrade:      b.AverageGrade().InexactFloat64(),
		CreatedAt:         b.CreatedAt().UTC(),
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *BookIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithContext(c),
		i.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return err
	}
	return responseError(res, "create index")
}

func (i *BookIndex) Index(ctx context.Context, b *entity.Book) error {
	body, err := json.Marshal(newBookDocument(b))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: b.ID().String(),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	return responseError(res, "index book")
}

// Remove deletes the document; a missing document is not an error.
func (i *BookIndex) Remove(ctx context.Context, id uuid.UUID) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: i.index, DocumentID: id.String()}
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	return responseError(res, "remove book")
}

// Search runs a multi_match over the text fields and returns ids by relevance.
func (i *BookIndex) Search(ctx context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[uuid.UUID], error) {
	in = in.Normalize()
	body, err := json.Marshal(searchQuery(in))
	if err != nil {
		return seedwork.SearchOutput[uuid.UUID]{}, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return seedwork.SearchOutput[uuid.UUID]{}, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return seedwork.SearchOutput[uuid.UUID]{}, fmt.Errorf("search books: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return seedwork.SearchOutput[uuid.UUID]{}, err
	}

	out := seedwork.SearchOutput[uuid.UUID]{
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		Total:       parsed.Hits.Total.Value,
		Items:       make([]uuid.UUID, 0, len(parsed.Hits.Hits)),
	}
	for _, h := range parsed.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			return seedwork.SearchOutput[uuid.UUID]{}, fmt.Errorf("search books: bad document id %q: %w", h.ID, err)
		}
		out.Items = append(out.Items, id)
	}
	return out, nil
}

func searchQuery(in seedwork.SearchInput) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  in.Search,
				"fields": []string{"title^3", "author^2", "isbn^2", "publishing_company", "description"},
			},
		},
		"from":             in.Offset(),
		"size":             in.PerPage,
		"_source":          false,
		"track_total_hits": true,
	}
}

func responseError(res *esapi.Response, op string) error {
	defer func() { _ = res.Body.Close() }()
	if !res.IsError() {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), bytes.TrimSpace(msg))
}

var _ application.BookIndex = (*BookIndex)(nil)
