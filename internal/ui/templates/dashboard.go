package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page shell. Each panel loads its data
// over SSE; datastar patches the placeholder divs in place.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SellerWave</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1c2430; }
header { background: #16324f; color: #fff; padding: 1rem 2rem; }
nav a { color: #9fc2e8; margin-right: 1rem; text-decoration: none; }
main { padding: 1.5rem 2rem; display: grid; gap: 1.5rem; }
section { background: #fff; border-radius: 8px; padding: 1rem 1.25rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
h2 { margin-top: 0; font-size: 1.05rem; }
.modern-table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
.modern-table th { text-align: left; border-bottom: 2px solid #d7dde5; padding: 0.4rem 0.6rem; }
.modern-table td { border-bottom: 1px solid #e8ecf1; padding: 0.4rem 0.6rem; }
.table-note { color: #8a6d1a; background: #fdf6e0; padding: 0.5rem 0.75rem; border-radius: 6px; }
</style>
</head>
<body data-signals="{categoryData: [], quantityData: [], ratingData: [], priceBandData: [], topProducts: [], highSales: [], careListings: []}">
<header>
<h1>SellerWave</h1>
<nav>
<a href="#dashboard" data-on-click="@get('/sse/dashboard')">Dashboard</a>
<a href="#decision" data-on-click="@get('/sse/decision')">Decision</a>
<a href="#explore" data-on-click="@get('/sse/explore')">Explore</a>
<a href="#refresh" data-on-click="@get('/sse/refresh-all')">Refresh all</a>
</nav>
</header>
<main data-on-load="@get('/sse/dashboard')">

<section id="dashboard">
<h2>Month-on-month growth</h2>
<div id="growth-content">Loading…</div>
</section>

<section>
<h2>Top products</h2>
<pre data-text="JSON.stringify($topProducts, null, 1)"></pre>
</section>

<section>
<h2>Unusually high recent sales</h2>
<pre data-text="JSON.stringify($highSales, null, 1)"></pre>
</section>

<section id="decision">
<h2>Budget picks with positive growth</h2>
<div id="positive-content">Select Decision to load.</div>
<h2>Steady risers</h2>
<div id="risers-content"></div>
</section>

<section id="explore">
<h2>Three months of consecutive sales</h2>
<div id="three-month-content">Select Explore to load.</div>
<h2>Rising every month</h2>
<div id="monotonic-content"></div>
<h2>Two months of consecutive sales</h2>
<div id="two-month-content"></div>
<h2>Two-month growth</h2>
<div id="two-growth-content"></div>
<h2>Last month vs third last</h2>
<div id="delta-content"></div>
<h2>Declining products</h2>
<div id="negative-content"></div>
</section>

</main>
</body>
</html>`
