package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"marcenapp/internal/database"
	"marcenapp/internal/models"

	"github.com/google/uuid"
)

// ErrInvalidClient is returned when an upsert payload fails validation.
var ErrInvalidClient = errors.New("invalid client payload")

const clientsSeededKey = "clients_seeded"

// seedClients is the demo set inserted on the first-ever read of an empty
// clients collection. IDs are fixed so the bootstrap is recognizable.
var seedClients = []models.Client{
	{
		ID:         "demo-mariana",
		Name:       "Mariana Costa",
		Email:      "mariana.costa@example.com",
		Phone:      "(11) 98765-4321",
		City:       "São Paulo",
		Notes:      "Indicada pelo fornecedor de ferragens.",
		Motivation: "Quer um home office completo em MDF amadeirado.",
		Status:     models.ClientStatusLead,
	},
	{
		ID:       "demo-roberto",
		Name:     "Roberto Almeida",
		Email:    "roberto.almeida@example.com",
		Phone:    "(21) 97654-3210",
		City:     "Rio de Janeiro",
		Notes:    "Cozinha planejada entregue em março; pediu orçamento do closet.",
		Feedback: "Muito satisfeito com o acabamento da cozinha.",
		Status:   models.ClientStatusActive,
	},
	{
		ID:     "demo-fernanda",
		Name:   "Fernanda Lima",
		Phone:  "(31) 96543-2109",
		City:   "Belo Horizonte",
		Notes:  "Aguardando liberação do apartamento na planta.",
		Status: models.ClientStatusWaitlist,
	},
}

// ClientStore persists the woodworker's contact network.
type ClientStore struct {
	db *database.DB
}

// NewClientStore creates a new client store.
func NewClientStore(db *database.DB) *ClientStore {
	return &ClientStore{db: db}
}

// List returns all clients, newest first. The first-ever read of an empty
// collection inserts the demo set; once any client has existed the seed never
// runs again, even if the collection is emptied later.
func (s *ClientStore) List(ctx context.Context) ([]models.Client, error) {
	if err := s.seedIfFirstRead(ctx); err != nil {
		return nil, err
	}
	return s.list(ctx)
}

func (s *ClientStore) list(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, name, email, phone, address, city, notes, motivation, feedback, status
		FROM clients ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Email, &c.Phone,
			&c.Address, &c.City, &c.Notes, &c.Motivation, &c.Feedback, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientStore) seedIfFirstRead(ctx context.Context) error {
	seeded, err := s.db.GetMeta(clientsSeededKey)
	if err != nil {
		return err
	}
	if seeded != "" {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&count); err != nil {
		return fmt.Errorf("failed to count clients: %w", err)
	}

	if count == 0 {
		now := time.Now().UTC()
		for i, client := range seedClients {
			// Staggered timestamps keep the demo set in a stable order.
			createdAt := now.Add(-time.Duration(i) * time.Minute)
			if err := s.insert(ctx, client, createdAt); err != nil {
				return fmt.Errorf("failed to seed demo clients: %w", err)
			}
		}
		log.Printf("🌱 Seeded %d demo clients", len(seedClients))
	}

	return s.db.SetMeta(clientsSeededKey, "1")
}

// Upsert creates a client when the payload carries no id, and fully replaces
// the record's fields (identity and timestamp aside) when it does. Either way
// the refreshed full list is returned.
func (s *ClientStore) Upsert(ctx context.Context, req models.UpsertClientRequest) ([]models.Client, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrInvalidClient)
	}
	if req.Status == "" {
		req.Status = models.ClientStatusLead
	}
	if !models.ValidClientStatus(req.Status) {
		return nil, fmt.Errorf("%w: status %q desconhecido", ErrInvalidClient, req.Status)
	}

	client := models.Client{
		ID:         req.ID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Notes:      req.Notes,
		Motivation: req.Motivation,
		Feedback:   req.Feedback,
		Status:     req.Status,
	}

	if client.ID == "" {
		client.ID = uuid.NewString()
		if err := s.insert(ctx, client, time.Now().UTC()); err != nil {
			return nil, err
		}
		return s.list(ctx)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, created_at, name, email, phone, address, city, notes, motivation, feedback, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, email = excluded.email, phone = excluded.phone,
			address = excluded.address, city = excluded.city, notes = excluded.notes,
			motivation = excluded.motivation, feedback = excluded.feedback, status = excluded.status`,
		client.ID, time.Now().UTC(), client.Name, client.Email, client.Phone,
		client.Address, client.City, client.Notes, client.Motivation, client.Feedback, client.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert client: %w", err)
	}

	return s.list(ctx)
}

// Get returns a client by id, or nil when no such record exists.
func (s *ClientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, email, phone, address, city, notes, motivation, feedback, status
		FROM clients WHERE id = ?`, id).Scan(
		&c.ID, &c.CreatedAt, &c.Name, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Notes, &c.Motivation, &c.Feedback, &c.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// Approve moves a client to the lead status, the entry point of the sales
// funnel. Returns the refreshed list, or nil when no such client exists.
func (s *ClientStore) Approve(ctx context.Context, id string) ([]models.Client, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE clients SET status = ? WHERE id = ?", models.ClientStatusLead, id)
	if err != nil {
		return nil, fmt.Errorf("failed to approve client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to approve client: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.list(ctx)
}

// Delete removes the client if present (idempotent) and returns the
// refreshed list.
func (s *ClientStore) Delete(ctx context.Context, id string) ([]models.Client, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}
	return s.list(ctx)
}

func (s *ClientStore) insert(ctx context.Context, client models.Client, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, created_at, name, email, phone, address, city, notes, motivation, feedback, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, createdAt, client.Name, client.Email, client.Phone,
		client.Address, client.City, client.Notes, client.Motivation, client.Feedback, client.Status)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}
