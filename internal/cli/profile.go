package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/store"
)

// profileFile is the TOML layout read by 'aide profile import'.
type profileFile struct {
	Profile  *store.Profile  `toml:"profile"`
	Persona  *store.Persona  `toml:"persona"`
	QA       []store.QAPair  `toml:"qa"`
	Projects []projectRecord `toml:"project"`
}

// projectRecord defaults is_active to true when the key is absent.
type projectRecord struct {
	Title       string `toml:"title"`
	Summary     string `toml:"summary"`
	Description string `toml:"description"`
	URL         string `toml:"url"`
	Tags        string `toml:"tags"`
	Active      *bool  `toml:"is_active"`
	Order       int    `toml:"order"`
}

func (p projectRecord) project() store.Project {
	active := p.Active == nil || *p.Active
	return store.Project{
		Title:       strings.TrimSpace(p.Title),
		Summary:     p.Summary,
		Description: p.Description,
		URL:         p.URL,
		Tags:        p.Tags,
		Active:      active,
		Order:       p.Order,
	}
}

func loadProfileFile(path string) (profileFile, error) {
	var f profileFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return f, fmt.Errorf("read %s: %w", path, err)
	}
	for i, q := range f.QA {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return f, fmt.Errorf("%s: qa %d: question and answer are required", path, i+1)
		}
	}
	for i, p := range f.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return f, fmt.Errorf("%s: project %d: title is required", path, i+1)
		}
	}
	return f, nil
}

// importProfile writes every section present in f.
func importProfile(ctx context.Context, st *store.Store, f profileFile) error {
	if f.Profile != nil {
		if err := st.SaveProfile(ctx, *f.Profile); err != nil {
			return err
		}
	}
	if f.Persona != nil {
		if err := st.SavePersona(ctx, *f.Persona); err != nil {
			return err
		}
	}
	for _, q := range f.QA {
		if _, err := st.AddQAPair(ctx, strings.TrimSpace(q.Question), strings.TrimSpace(q.Answer)); err != nil {
			return err
		}
	}
	for _, p := range f.Projects {
		if _, err := st.CreateProject(ctx, p.project()); err != nil {
			return err
		}
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the owner profile, persona, FAQ and projects",
	}
	cmd.AddCommand(newProfileImportCmd(), newProfileShowCmd())
	return cmd
}

func newProfileImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Load profile data from a TOML file",
		Long: `Load any of these sections from a TOML file:

  [profile]   display_name, short_bio, full_bio, email, location, website, timezone
  [persona]   tone, greeting_template, closing_template, refer_to_user_as, third_person
  [[qa]]      question, answer
  [[project]] title, summary, description, url, tags, is_active, order

[profile] and [persona] replace what is stored; [[qa]] and [[project]] entries
are appended. Templates may use {name}.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadProfileFile(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := importProfile(cmd.Context(), a.store, f); err != nil {
				return err
			}

			var parts []string
			if f.Profile != nil {
				parts = append(parts, "profile")
			}
			if f.Persona != nil {
				parts = append(parts, "persona")
			}
			if n := len(f.QA); n > 0 {
				parts = append(parts, fmt.Sprintf("%d FAQ entries", n))
			}
			if n := len(f.Projects); n > 0 {
				parts = append(parts, fmt.Sprintf("%d projects", n))
			}
			if len(parts) == 0 {
				fmt.Println("Nothing to import.")
				return nil
			}
			fmt.Printf("Imported %s.\n", strings.Join(parts, ", "))
			return nil
		},
	}
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the profile the way the assistant presents it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Println(a.router.Handle(cmd.Context(), "about me"))
			return nil
		},
	}
}
