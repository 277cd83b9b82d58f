// Package airtable implements the directory store on top of an Airtable
// table with the columns email, passwordHash and creationTimestamp.
package airtable

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mehanizm/airtable"

	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const (
	fieldEmail             = "email"
	fieldPasswordHash      = "passwordHash"
	fieldCreationTimestamp = "creationTimestamp"
)

// Config holds the Airtable identifiers the store needs.
type Config struct {
	APIKey  string
	BaseID  string
	TableID string
	// BaseURL overrides the API endpoint; empty uses the public API.
	BaseURL string
}

// table is the subset of *airtable.Table used by the store.
type table interface {
	list(offset string) (*airtable.Records, error)
	peek() (*airtable.Records, error)
	add(records *airtable.Records) (*airtable.Records, error)
}

type clientTable struct {
	t *airtable.Table
}

func (c clientTable) list(offset string) (*airtable.Records, error) {
	req := c.t.GetRecords().ReturnFields(fieldEmail, fieldPasswordHash, fieldCreationTimestamp)
	if offset != "" {
		req = req.WithOffset(offset)
	}
	return req.Do()
}

// peek requests a single record with a single field.
func (c clientTable) peek() (*airtable.Records, error) {
	return c.t.GetRecords().ReturnFields(fieldEmail).MaxRecords(1).Do()
}

func (c clientTable) add(records *airtable.Records) (*airtable.Records, error) {
	return c.t.AddRecords(records)
}

// DirectoryStore reads and writes directory rows in Airtable.
type DirectoryStore struct {
	table table
}

var _ ports.DirectoryStore = (*DirectoryStore)(nil)

func New(cfg Config) (*DirectoryStore, error) {
	if cfg.APIKey == "" || cfg.BaseID == "" || cfg.TableID == "" {
		return nil, fmt.Errorf("airtable: api key, base id and table id are required")
	}

	client := airtable.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		if err := client.SetBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("airtable: base url: %w", err)
		}
	}
	return &DirectoryStore{table: clientTable{t: client.GetTable(cfg.BaseID, cfg.TableID)}}, nil
}

// FetchAll pages through the whole table.
func (s *DirectoryStore) FetchAll(ctx context.Context) ([]domain.UserRecord, error) {
	var (
		out    []domain.UserRecord
		offset string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.table.list(offset)
		if err != nil {
			return nil, fmt.Errorf("airtable list records: %w", err)
		}
		for _, rec := range page.Records {
			r, err := toUserRecord(rec)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

func (s *DirectoryStore) Create(ctx context.Context, record domain.UserRecord) (*domain.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.table.add(&airtable.Records{
		Records: []*airtable.Record{{
			Fields: map[string]any{
				fieldEmail:             record.Email,
				fieldPasswordHash:      record.PasswordHash,
				fieldCreationTimestamp: record.CreationTimestamp,
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("airtable create record: %w", err)
	}
	if res == nil || len(res.Records) != 1 {
		return nil, fmt.Errorf("airtable create record: unexpected response")
	}

	created, err := toUserRecord(res.Records[0])
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Ping reads at most one record to confirm the table is reachable.
func (s *DirectoryStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.table.peek(); err != nil {
		return fmt.Errorf("airtable ping: %w", err)
	}
	return nil
}

func toUserRecord(rec *airtable.Record) (domain.UserRecord, error) {
	if rec == nil {
		return domain.UserRecord{}, fmt.Errorf("airtable: nil record")
	}

	email, _ := rec.Fields[fieldEmail].(string)
	hash, _ := rec.Fields[fieldPasswordHash].(string)
	ts, err := toMillis(rec.Fields[fieldCreationTimestamp])
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("airtable record %s: %w", rec.ID, err)
	}

	return domain.UserRecord{
		ID:                rec.ID,
		Email:             email,
		PasswordHash:      hash,
		CreationTimestamp: ts,
	}, nil
}

func toMillis(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		ts, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("creationTimestamp %q: %w", n, err)
		}
		return ts, nil
	default:
		return 0, fmt.Errorf("creationTimestamp has unexpected type %T", v)
	}
}
