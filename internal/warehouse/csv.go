package warehouse

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"sellerwave/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// CSV streams a comma-separated export of the sales table. Lines parse in
// bounded parallel batches; input order is preserved so downstream
// stable sorts stay deterministic.
type CSV struct {
	path  string
	limit int
}

func NewCSV(path string, limit int) *CSV {
	return &CSV{path: path, limit: limit}
}

func (c *CSV) Fetch(ctx context.Context) ([]models.Sale, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty file")
	}
	idx, err := indexColumns(strings.Split(scanner.Text(), ","))
	if err != nil {
		return nil, err
	}

	var sales []models.Sale
	batch := make([]string, 0, batchSize)
	remaining := c.limit

	for remaining > 0 && scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		batch = append(batch, scanner.Text())
		remaining--

		if len(batch) >= batchSize {
			parsed, err := parseBatch(ctx, batch, idx)
			if err != nil {
				return nil, err
			}
			sales = append(sales, parsed...)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		parsed, err := parseBatch(ctx, batch, idx)
		if err != nil {
			return nil, err
		}
		sales = append(sales, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	if len(sales) == 0 {
		return nil, fmt.Errorf("no valid sales rows found")
	}
	return sales, nil
}

// parseBatch fans a batch out over a bounded worker group. Each worker
// writes to its own slot, keeping source order; invalid lines are skipped.
func parseBatch(ctx context.Context, batch []string, idx columnIndex) ([]models.Sale, error) {
	parsed := make([]models.Sale, len(batch))
	valid := make([]bool, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			s, err := parseSale(strings.Split(line, ","), idx)
			if err != nil {
				return nil // skip invalid rows
			}
			parsed[i] = s
			valid[i] = true
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	sales := make([]models.Sale, 0, len(batch))
	for i, ok := range valid {
		if ok {
			sales = append(sales, parsed[i])
		}
	}
	return sales, nil
}
