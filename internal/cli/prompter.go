package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// ErrInputTerminated is returned when input ends before a prompt is answered.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks for the fields of a new transaction on a terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter reading from reader and writing to writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// PromptForm collects a category, an amount and a description. Invalid answers are
// asked again; the returned form still goes through entry.Build before it is saved.
func (p *Prompter) PromptForm(ctx context.Context, registry *category.Registry) (entry.Form, error) {
	cat, err := p.promptCategory(ctx, registry)
	if err != nil {
		return entry.Form{}, err
	}

	amount, err := p.promptAmount(ctx)
	if err != nil {
		return entry.Form{}, err
	}

	description, err := p.prompt(ctx, "Description (optional)")
	if err != nil {
		return entry.Form{}, err
	}

	return entry.Form{
		Category:    cat.Name,
		Amount:      amount,
		Description: description,
	}, nil
}

func (p *Prompter) promptCategory(ctx context.Context, registry *category.Registry) (model.Category, error) {
	all := registry.All()
	if _, err := fmt.Fprintln(p.writer, FormatPrompt("Categories:")); err != nil {
		return model.Category{}, fmt.Errorf("failed to write category list: %w", err)
	}
	for i, c := range all {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s %s\n", i+1, CategoryStyle(c.Color).Render(c.Name), SubtleStyle.Render("("+string(c.Type)+")")); err != nil {
			return model.Category{}, fmt.Errorf("failed to write category option: %w", err)
		}
	}

	for {
		answer, err := p.prompt(ctx, "Category")
		if err != nil {
			return model.Category{}, err
		}

		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
		if c, ok := registry.FindByName(answer); ok {
			return c, nil
		}

		p.complain("Choose a category by number or name")
	}
}

func (p *Prompter) promptAmount(ctx context.Context) (string, error) {
	for {
		answer, err := p.prompt(ctx, "Amount")
		if err != nil {
			return "", err
		}

		_, parseErr := entry.ParseAmount(answer)
		switch {
		case parseErr == nil:
			return answer, nil
		case errors.Is(parseErr, entry.ErrNonPositiveAmount):
			p.complain("Amount must be positive")
		default:
			p.complain("Enter a valid amount")
		}
	}
}

func (p *Prompter) prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputTerminated
	}
	return line, err
}

func (p *Prompter) complain(message string) {
	if _, err := fmt.Fprintln(p.writer, FormatError(message)); err != nil {
		slog.Warn("Failed to write error message", "error", err)
	}
}

// ShowAdded confirms a saved transaction.
func (p *Prompter) ShowAdded(t model.Transaction, currency string) {
	msg := fmt.Sprintf("Added %s: %s", t.Category.Name, FormatAmount(t.Amount, currency))
	if _, err := fmt.Fprintln(p.writer, FormatSuccess(msg)); err != nil {
		slog.Warn("Failed to write confirmation", "error", err)
	}
}

// ShowError prints the user-facing part of err.
func (p *Prompter) ShowError(err error) {
	p.complain(common.UserMessage(err))
}
