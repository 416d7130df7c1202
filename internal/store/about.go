package store

import (
	"context"
	"database/sql"
	"errors"
)

// GetProfile returns the profile, or nil when none has been saved.
func (s *Store) GetProfile(ctx context.Context) (*Profile, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	var p Profile
	err = conn.QueryRowContext(ctx, `
		SELECT display_name, short_bio, full_bio, email, location, website, timezone
		FROM profile WHERE id = 1`,
	).Scan(&p.DisplayName, &p.ShortBio, &p.FullBio, &p.Email, &p.Location, &p.Website, &p.TimeZone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get profile", err)
	}
	return &p, nil
}

// SaveProfile inserts or replaces the profile.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	if p.TimeZone == "" {
		p.TimeZone = "Europe/Paris"
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO profile (id, display_name, short_bio, full_bio, email, location, website, timezone)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    display_name = excluded.display_name,
		    short_bio    = excluded.short_bio,
		    full_bio     = excluded.full_bio,
		    email        = excluded.email,
		    location     = excluded.location,
		    website      = excluded.website,
		    timezone     = excluded.timezone`,
		p.DisplayName, p.ShortBio, p.FullBio, p.Email, p.Location, p.Website, p.TimeZone,
	)
	return wrap("save profile", err)
}

// FirstQAPair returns the oldest FAQ entry, or nil when there are none.
func (s *Store) FirstQAPair(ctx context.Context) (*QAPair, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	var qa QAPair
	err = conn.QueryRowContext(ctx,
		`SELECT id, question, answer FROM qa_pairs ORDER BY id LIMIT 1`,
	).Scan(&qa.ID, &qa.Question, &qa.Answer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get qa pair", err)
	}
	return &qa, nil
}

func (s *Store) AddQAPair(ctx context.Context, question, answer string) (QAPair, error) {
	conn, err := s.conn()
	if err != nil {
		return QAPair{}, err
	}
	res, err := conn.ExecContext(ctx, `INSERT INTO qa_pairs (question, answer) VALUES (?, ?)`, question, answer)
	if err != nil {
		return QAPair{}, wrap("add qa pair", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return QAPair{}, wrap("add qa pair", err)
	}
	return QAPair{ID: id, Question: question, Answer: answer}, nil
}

// GetPersona returns the persona, or nil when none has been configured.
func (s *Store) GetPersona(ctx context.Context) (*Persona, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	var p Persona
	err = conn.QueryRowContext(ctx, `
		SELECT tone, greeting_template, closing_template, refer_to_user_as, third_person
		FROM persona WHERE id = 1`,
	).Scan(&p.Tone, &p.GreetingTemplate, &p.ClosingTemplate, &p.ReferToUserAs, &p.ThirdPerson)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get persona", err)
	}
	return &p, nil
}

// SavePersona inserts or replaces the persona.
func (s *Store) SavePersona(ctx context.Context, p Persona) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	if p.Tone == "" {
		p.Tone = "friendly"
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO persona (id, tone, greeting_template, closing_template, refer_to_user_as, third_person)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    tone              = excluded.tone,
		    greeting_template = excluded.greeting_template,
		    closing_template  = excluded.closing_template,
		    refer_to_user_as  = excluded.refer_to_user_as,
		    third_person      = excluded.third_person`,
		p.Tone, p.GreetingTemplate, p.ClosingTemplate, p.ReferToUserAs, boolInt(p.ThirdPerson),
	)
	return wrap("save persona", err)
}

// ListActiveProjects returns up to limit active projects by (order, id).
func (s *Store) ListActiveProjects(ctx context.Context, limit int) ([]Project, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT id, title, summary, description, url, tags, is_active, sort_order
		FROM projects WHERE is_active = 1
		ORDER BY sort_order, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Description, &p.URL, &p.Tags, &p.Active, &p.Order); err != nil {
			return nil, wrap("scan project", err)
		}
		out = append(out, p)
	}
	return out, wrap("list projects", rows.Err())
}

// CreateProject inserts p and returns it with its id.
func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	conn, err := s.conn()
	if err != nil {
		return Project{}, err
	}

	res, err := conn.ExecContext(ctx, `
		INSERT INTO projects (title, summary, description, url, tags, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Summary, p.Description, p.URL, p.Tags, boolInt(p.Active), p.Order,
	)
	if err != nil {
		return Project{}, wrap("create project", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Project{}, wrap("create project", err)
	}
	return p, nil
}
