package mockserver

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/condoview/internal/domain"
)

var seedTitles = []struct {
	title, typ string
}{
	{"Vazamento na garagem", "manutencao"},
	{"Barulho após as 22h", "barulho"},
	{"Lâmpada queimada no hall", "manutencao"},
	{"Portão da garagem travando", "seguranca"},
	{"Lixo fora do horário", "limpeza"},
	{"Interfone sem som", "manutencao"},
	{"Vaga ocupada indevidamente", "garagem"},
	{"Infiltração no teto", "manutencao"},
}

// Seed inserts n demo occurrences spread over every status and three
// residents. It does nothing when the store already has data.
func Seed(ctx context.Context, store *Store, n int) (int, error) {
	existing, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 || n <= 0 {
		return 0, nil
	}

	statuses := []domain.Status{domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved, domain.StatusCancelled}
	for i := 0; i < n; i++ {
		t := seedTitles[i%len(seedTitles)]
		o, err := store.Create(ctx, domain.NewOccurrence{
			Title:       fmt.Sprintf("%s (%d)", t.title, i+1),
			Description: fmt.Sprintf("Relato de demonstração número %d.", i+1),
			Type:        t.typ,
			ResidentID:  fmt.Sprintf("apto-%d", i%3+1),
		}, nil)
		if err != nil {
			return i, fmt.Errorf("seed occurrence %d: %w", i+1, err)
		}
		switch status := statuses[i%len(statuses)]; status {
		case domain.StatusOpen:
		case domain.StatusCancelled:
			if _, err := store.Cancel(ctx, o.ID); err != nil {
				return i, fmt.Errorf("seed occurrence %d: %w", i+1, err)
			}
		default:
			if _, err := store.Update(ctx, o.ID, domain.OccurrenceUpdate{Status: &status}); err != nil {
				return i, fmt.Errorf("seed occurrence %d: %w", i+1, err)
			}
		}
	}
	return n, nil
}
