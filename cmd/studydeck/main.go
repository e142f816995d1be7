package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/studydeck/generate"
	"github.com/andrewpaige1/studydeck/recorder"
	"github.com/andrewpaige1/studydeck/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "studydeck",
		Short:         "Flashcards with spaced review and cloud sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "client config file")

	root.AddCommand(newSignUpCmd(&configPath))
	root.AddCommand(newLoginCmd(&configPath))
	root.AddCommand(newLogoutCmd(&configPath))
	root.AddCommand(newSyncCmd(&configPath))
	root.AddCommand(newAddCmd(&configPath))
	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newListCmd(&configPath))
	root.AddCommand(newDeleteCmd(&configPath))
	root.AddCommand(newStarCmd(&configPath))
	root.AddCommand(newGradeCmd(&configPath))
	root.AddCommand(newNextCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newSessionCmd(&configPath))
	return root
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studydeck.yaml"
	}
	return filepath.Join(home, ".studydeck", "config.yaml")
}

// withApp loads the client for one command and closes it afterwards.
func withApp(configPath *string, fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := loadApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printSync(cmd *cobra.Command, a *app) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sync %s, %d cards local\n", a.syncer.State(), len(a.cards.Cards()))
}

func newSignUpCmd(configPath *string) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup --email <email> --password <password>",
		Short: "Create an account and upload the local deck",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				id, err := a.session.SignUp(ctx, email, password, name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed up as %s (%s)\n", id.Email, id.UserID)
				printSync(cmd, a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLoginCmd(configPath *string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in and reconcile the deck with the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				id, err := a.session.SignIn(ctx, email, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", id.Email)
				printSync(cmd, a)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; local cards are kept",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				if err := a.session.SignOut(ctx); err != nil {
					a.log.Warn("remote sign-out failed", "error", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newSyncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local deck with the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				if _, err := a.userID(); err != nil {
					return err
				}
				// replay the saved sign-in as a fresh identity change
				a.syncer.Reset()
				a.session.Resume(ctx)
				rep := a.syncer.LastReport()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pulled %d, pushed %d\n", rep.Pulled, rep.Pushed)
				return rep.Err()
			})
		},
	}
}

func newAddCmd(configPath *string) *cobra.Command {
	var d store.Draft
	var difficulty string
	cmd := &cobra.Command{
		Use:   "add --question <q> --answer <a>",
		Short: "Add a card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if difficulty != "" {
				diff, ok := store.ParseDifficulty(difficulty)
				if !ok {
					return fmt.Errorf("--difficulty must be easy, medium or hard")
				}
				d.Difficulty = diff
			}
			return withApp(configPath, func(_ context.Context, a *app) error {
				card, err := a.cards.AddCard(d)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Question, "question", "", "question text")
	cmd.Flags().StringVar(&d.Answer, "answer", "", "answer text")
	cmd.Flags().StringVar(&d.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&d.Week, "week", "", "week label")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy|medium|hard")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add the cards from a saved generation response or notes file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return withApp(configPath, func(ctx context.Context, a *app) error {
				generated, err := generate.FileGenerator{}.Generate(ctx, generate.Source{
					File:     f,
					FileName: filepath.Base(args[0]),
					Subject:  subject,
				})
				if err != nil {
					return err
				}
				added, err := a.cards.AddGeneratedCards(generated)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d cards\n", len(added))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject for cards without one")
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	var due, starred, grouped bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if grouped {
					for _, g := range a.cards.CardsBySubject() {
						_, _ = fmt.Fprintf(out, "%s\n", labelOr(g.Subject, "(no subject)"))
						for _, w := range g.Weeks {
							_, _ = fmt.Fprintf(out, "  %s\n", labelOr(w.Week, "(no week)"))
							for _, c := range w.Cards {
								_, _ = fmt.Fprintf(out, "    %s\n", formatCard(c))
							}
						}
					}
					return nil
				}

				cards := a.cards.Cards()
				switch {
				case due:
					cards = a.cards.DueCards(time.Now())
				case starred:
					cards = a.cards.Starred()
				}
				if len(cards) == 0 {
					_, _ = fmt.Fprintln(out, "no cards")
					return nil
				}
				for _, c := range cards {
					_, _ = fmt.Fprintln(out, formatCard(c))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&due, "due", false, "only cards due for review")
	cmd.Flags().BoolVar(&starred, "starred", false, "only starred cards")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "group by subject and week")
	return cmd
}

func labelOr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func formatCard(c store.Flashcard) string {
	star := " "
	if c.Starred {
		star = "*"
	}
	next := "-"
	if c.NextReview != nil {
		next = c.NextReview.Local().Format("2006-01-02")
	}
	return fmt.Sprintf("%s %s\t%s\t%s\t+%d/-%d\tnext %s", star, c.ID, c.Question, c.Answer, c.CorrectCount, c.IncorrectCount, next)
}

func newDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				if err := a.cards.DeleteCard(args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newStarCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "star <id>",
		Short: "Toggle a card's star",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				if err := a.cards.ToggleStar(args[0]); err != nil {
					return err
				}
				c, err := a.cards.Card(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "starred=%t\n", c.Starred)
				return nil
			})
		},
	}
}

func newGradeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "grade <id> correct|incorrect",
		Short:     "Record an answer to a card",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"correct", "incorrect"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				var err error
				switch args[1] {
				case "correct":
					err = a.cards.MarkCardCorrect(args[0])
				case "incorrect":
					err = a.cards.MarkCardIncorrect(args[0])
				default:
					return fmt.Errorf("grade must be correct or incorrect, got %q", args[1])
				}
				if err != nil {
					return err
				}
				p := a.cards.Progress()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "points %d, level %d\n", p.Points, p.Level)
				return nil
			})
		},
	}
}

func newNextCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Advance to the next card and show it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				a.cards.NextCard()
				c, ok := a.cards.CurrentCard()
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cards")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", a.cards.CurrentIndex()+1, c.Question)
				return nil
			})
		},
	}
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progress and, when signed in, account stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				p := a.cards.Progress()
				s := a.cards.Session()
				_, _ = fmt.Fprintf(out, "points: %d\nlevel: %d\nstreak: %d (longest %d)\nstudy time: %dm\n",
					p.Points, p.Level, p.Streak, p.LongestStreak, p.TotalStudyTimeMinutes)
				_, _ = fmt.Fprintf(out, "session: %d/%d correct (%.0f%%)\n", s.Correct, s.Total, store.Accuracy(s.Correct, s.Total))

				userID, err := a.userID()
				if err != nil {
					return nil
				}
				remoteStats, err := a.client.GetUserStats(ctx, userID)
				if err != nil {
					a.log.Warn("load account stats", "error", err)
					return nil
				}
				_, _ = fmt.Fprintf(out, "account study time: %dm\n", remoteStats.TotalStudyTimeMinutes)
				return nil
			})
		},
	}
}

func newSessionCmd(configPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Practice session lifecycle"}

	var minutes int
	save := &cobra.Command{
		Use:   "save --minutes <n>",
		Short: "Finish the practice session and record it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minutes < 0 {
				return fmt.Errorf("--minutes must not be negative")
			}
			return withApp(configPath, func(ctx context.Context, a *app) error {
				tally := recorder.TallyFrom(a.cards.Session(), minutes)
				a.cards.AddStudyTime(minutes)
				a.cards.UpdateStreak()

				if userID, err := a.userID(); err == nil {
					if _, err := a.recorder.Save(ctx, userID, tally); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session recorded")
				} else {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session kept locally; sign in to record it")
				}
				a.cards.ResetSession()
				return nil
			})
		},
	}
	save.Flags().IntVar(&minutes, "minutes", 0, "session length in minutes")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current session tally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(_ context.Context, a *app) error {
				a.cards.ResetSession()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session reset")
				return nil
			})
		},
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recently recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(configPath, func(ctx context.Context, a *app) error {
				userID, err := a.userID()
				if err != nil {
					return err
				}
				sessions, err := a.recorder.Recent(ctx, userID, limit)
				if err != nil {
					return err
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d/%d\t%.0f%%\t%dm\n",
						s.SessionDate.Local().Format("2006-01-02 15:04"), s.CorrectAnswers, s.TotalCards, s.AccuracyPercentage, s.DurationMinutes)
				}
				return nil
			})
		},
	}
	recent.Flags().IntVar(&limit, "limit", recorder.DefaultRecent, "number of sessions")

	session.AddCommand(save, reset, recent)
	return session
}
