package trackctl

import (
	"context"
	"fmt"

	"github.com/okian/trackboard/internal/domain/stats"
)

// Verify fetches the table and checks that its footer matches the summary
// recomputed from its rows.
func Verify(ctx context.Context, c *Client) (View, error) {
	view, err := c.Session(ctx)
	if err != nil {
		return View{}, err
	}
	if !view.Initialized {
		return view, nil
	}
	if len(view.Rows) == 0 {
		return view, fmt.Errorf("%w: initialized table without rows", ErrSummaryMismatch)
	}
	want := stats.Summarize(view.Rows)
	if want != view.Summary {
		return view, fmt.Errorf("%w: server %+v, rows give %+v", ErrSummaryMismatch, view.Summary, want)
	}
	return view, nil
}
