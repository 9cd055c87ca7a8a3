package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-managebooks/internal/domain/entity"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Name)
	}
	return out
}

type mapCache struct {
	views   map[uuid.UUID]BookView
	gets    int
	deletes int
}

func newMapCache() *mapCache { return &mapCache{views: map[uuid.UUID]BookView{}} }

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (BookView, bool, error) {
	c.gets++
	v, ok := c.views[id]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, v BookView) error {
	c.views[v.ID] = v
	return nil
}

func (c *mapCache) Delete(_ context.Context, id uuid.UUID) error {
	c.deletes++
	delete(c.views, id)
	return nil
}

// titleIndex matches the search term against titles held in memory.
type titleIndex struct {
	titles map[uuid.UUID]string
	order  []uuid.UUID
	err    error
}

func newTitleIndex() *titleIndex { return &titleIndex{titles: map[uuid.UUID]string{}} }

func (i *titleIndex) Index(_ context.Context, b *entity.Book) error {
	if _, ok := i.titles[b.ID()]; !ok {
		i.order = append(i.order, b.ID())
	}
	i.titles[b.ID()] = b.Title()
	return nil
}

func (i *titleIndex) Remove(_ context.Context, id uuid.UUID) error {
	delete(i.titles, id)
	return nil
}

func (i *titleIndex) Search(_ context.Context, in seedwork.SearchInput) (seedwork.SearchOutput[uuid.UUID], error) {
	if i.err != nil {
		return seedwork.SearchOutput[uuid.UUID]{}, i.err
	}
	out := seedwork.SearchOutput[uuid.UUID]{CurrentPage: in.Page, PerPage: in.PerPage, Items: []uuid.UUID{}}
	for _, id := range i.order {
		title, ok := i.titles[id]
		if ok && strings.Contains(strings.ToLower(title), strings.ToLower(in.Search)) {
			out.Items = append(out.Items, id)
		}
	}
	out.Total = len(out.Items)
	return out, nil
}

type bucket struct {
	objects map[string]string
	err     error
}

func (b *bucket) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if b.objects == nil {
		b.objects = map[string]string{}
	}
	b.objects[objectPath] = string(data)
	return "https://storage.example.com/" + objectPath, nil
}

var errBroker = errors.New("broker unavailable")
