package check_test

import (
	"context"
	"sync"
	"testing"
	"time"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
	"github.com/WiwiC/WhatFits/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryProducts returns a ProductService mock backed by a map keyed
// by source URL.
func memoryProducts() *mock.ProductService {
	var mu sync.Mutex
	store := make(map[string]*whatfits.Product)

	return &mock.ProductService{
		CreateProductFn: func(_ context.Context, p *whatfits.Product) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := store[p.SourceURL]; ok {
				return whatfits.Errorf(whatfits.EINVALID, "product already cached")
			}
			p.ID = "test-id"
			store[p.SourceURL] = p
			return nil
		},
		FindProductBySourceURLFn: func(_ context.Context, url string) (*whatfits.Product, error) {
			mu.Lock()
			defer mu.Unlock()
			if p, ok := store[url]; ok {
				return p, nil
			}
			return nil, whatfits.Errorf(whatfits.ENOTFOUND, "product not found")
		},
		DeleteProductBySourceURLFn: func(_ context.Context, url string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(store, url)
			return nil
		},
	}
}

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			return html, nil
		},
	}
}

func productExtractor() *mock.ProductExtractor {
	return &mock.ProductExtractor{
		ExtractProductFn: func(_ string, sourceURL string) (*whatfits.Product, error) {
			return &whatfits.Product{
				SourceURL:   sourceURL,
				Title:       "Confiture de fraises",
				Ingredients: []string{"fraises 60%", "gélatine de porc"},
				Language:    "fr",
			}, nil
		},
	}
}

func alignedJudge() *mock.Judge {
	return &mock.Judge{
		JudgeProductFn: func(context.Context, *whatfits.Product, *whatfits.Preferences, []whatfits.Finding) (*whatfits.Judgment, error) {
			return &whatfits.Judgment{
				Verdict:    whatfits.VerdictAligned,
				Confidence: 0.9,
				Summary:    "Rien à signaler.",
			}, nil
		},
	}
}

func noDelays() []time.Duration {
	return []time.Duration{}
}

func TestChecker_CheckURL(t *testing.T) {
	t.Parallel()

	t.Run("extracts, evaluates, and judges a product", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher:     staticFetcher("<html>produit</html>"),
			Extractor:   productExtractor(),
			Products:    memoryProducts(),
			Judge:       alignedJudge(),
			RetryDelays: noDelays(),
		}

		prefs := &whatfits.Preferences{Diet: whatfits.DietVegan}
		result, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture", prefs)
		require.NoError(t, err)

		assert.Equal(t, "Confiture de fraises", result.Product.Title)
		assert.NotEmpty(t, result.Product.ContentHash)
		assert.False(t, result.Cached)
		require.NotEmpty(t, result.Findings)
		assert.True(t, whatfits.AnyViolated(result.Findings), "gélatine de porc should violate a vegan diet")

		// The model said aligned, but the violated finding clamps it
		require.NotNil(t, result.Judgment)
		assert.Equal(t, whatfits.VerdictCaution, result.Judgment.Verdict)
	})

	t.Run("reuses cached product when content is unchanged", func(t *testing.T) {
		t.Parallel()

		var extractCalls int
		extractor := &mock.ProductExtractor{
			ExtractProductFn: func(_ string, sourceURL string) (*whatfits.Product, error) {
				extractCalls++
				return &whatfits.Product{SourceURL: sourceURL, Title: "Granola bio"}, nil
			},
		}

		checker := &check.Checker{
			Fetcher:     staticFetcher("<html>granola</html>"),
			Extractor:   extractor,
			Products:    memoryProducts(),
			RetryDelays: noDelays(),
		}
		ctx := context.Background()
		prefs := &whatfits.Preferences{}

		first, err := checker.CheckURL(ctx, "https://shop.example.com/granola", prefs)
		require.NoError(t, err)
		assert.False(t, first.Cached)

		second, err := checker.CheckURL(ctx, "https://shop.example.com/granola", prefs)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, 1, extractCalls, "unchanged page should not be re-extracted")
	})

	t.Run("re-extracts when content changed", func(t *testing.T) {
		t.Parallel()

		html := "<html>v1</html>"
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return html, nil },
		}

		var extractCalls int
		extractor := &mock.ProductExtractor{
			ExtractProductFn: func(_ string, sourceURL string) (*whatfits.Product, error) {
				extractCalls++
				return &whatfits.Product{SourceURL: sourceURL, Title: "Granola bio"}, nil
			},
		}

		checker := &check.Checker{
			Fetcher:     fetcher,
			Extractor:   extractor,
			Products:    memoryProducts(),
			RetryDelays: noDelays(),
		}
		ctx := context.Background()
		prefs := &whatfits.Preferences{}

		_, err := checker.CheckURL(ctx, "https://shop.example.com/granola", prefs)
		require.NoError(t, err)

		html = "<html>v2</html>"
		result, err := checker.CheckURL(ctx, "https://shop.example.com/granola", prefs)
		require.NoError(t, err)
		assert.False(t, result.Cached)
		assert.Equal(t, 2, extractCalls)
	})

	t.Run("keeps findings when the model call fails", func(t *testing.T) {
		t.Parallel()

		judge := &mock.Judge{
			JudgeProductFn: func(context.Context, *whatfits.Product, *whatfits.Preferences, []whatfits.Finding) (*whatfits.Judgment, error) {
				return nil, whatfits.Errorf(whatfits.EUNAVAILABLE, "API error (status 503)")
			},
		}

		checker := &check.Checker{
			Fetcher:     staticFetcher("<html>produit</html>"),
			Extractor:   productExtractor(),
			Judge:       judge,
			RetryDelays: noDelays(),
		}

		result, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture",
			&whatfits.Preferences{Diet: whatfits.DietVegan})
		require.NoError(t, err)

		assert.Nil(t, result.Judgment)
		require.Error(t, result.JudgmentErr)
		assert.Equal(t, whatfits.EUNAVAILABLE, whatfits.ErrorCode(result.JudgmentErr))
		assert.NotEmpty(t, result.Findings, "deterministic findings survive model failure")
	})

	t.Run("fills missing description from the fallback extractor", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher: staticFetcher("<html><p>Une confiture artisanale.</p></html>"),
			Extractor: &mock.ProductExtractor{
				ExtractProductFn: func(_ string, sourceURL string) (*whatfits.Product, error) {
					return &whatfits.Product{SourceURL: sourceURL, Title: "Confiture"}, nil
				},
			},
			Fallback: &mock.Extractor{
				ExtractFn: func(string) (*whatfits.ExtractResult, error) {
					return &whatfits.ExtractResult{ContentHTML: "<p>Une confiture artisanale.</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(string) (string, error) {
					return "Une confiture artisanale.", nil
				},
			},
			RetryDelays: noDelays(),
		}

		result, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture", nil)
		require.NoError(t, err)
		assert.Equal(t, "Une confiture artisanale.", result.Product.Description)
	})

	t.Run("counts context tokens when a counter is configured", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher:   staticFetcher("<html>produit</html>"),
			Extractor: productExtractor(),
			TokenCounter: &mock.TokenCounter{
				CountTokensFn: func(_ context.Context, text string) (int, error) {
					return len(text) / 4, nil
				},
			},
			RetryDelays: noDelays(),
		}

		result, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture", nil)
		require.NoError(t, err)
		assert.Positive(t, result.ContextTokens)
	})

	t.Run("returns EINVALID for a URL with no host", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher:     staticFetcher(""),
			RetryDelays: noDelays(),
		}

		_, err := checker.CheckURL(context.Background(), "not-a-url", nil)
		require.Error(t, err)
		assert.Equal(t, whatfits.EINVALID, whatfits.ErrorCode(err))
	})

	t.Run("retries failed fetches", func(t *testing.T) {
		t.Parallel()

		var attempts int
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				attempts++
				if attempts < 3 {
					return "", whatfits.Errorf(whatfits.EUNAVAILABLE, "HTTP 503")
				}
				return "<html>produit</html>", nil
			},
		}

		checker := &check.Checker{
			Fetcher:     fetcher,
			Extractor:   productExtractor(),
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}

		_, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("waits for the domain rate limiter", func(t *testing.T) {
		t.Parallel()

		var waitedDomain string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				waitedDomain = domain
				return nil
			},
		}

		checker := &check.Checker{
			Fetcher:     staticFetcher("<html>produit</html>"),
			Extractor:   productExtractor(),
			RateLimiter: limiter,
			RetryDelays: noDelays(),
		}

		_, err := checker.CheckURL(context.Background(), "https://shop.example.com/confiture", nil)
		require.NoError(t, err)
		assert.Equal(t, "shop.example.com", waitedDomain)
	})
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	t.Run("dispatches cart pages to the cart pipeline", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher: staticFetcher("<html>panier</html>"),
			Detector: &mock.PageDetector{
				DetectFn: func(string) whatfits.PageKind { return whatfits.PageKindCart },
			},
			CartExtractor: &mock.CartExtractor{
				ExtractCartFn: func(_ string, sourceURL string) (*whatfits.Cart, error) {
					return &whatfits.Cart{
						SourceURL: sourceURL,
						Items: []whatfits.CartItem{
							{Title: "Thé vert sencha", Quantity: 2, UnitPrice: "3.5"},
						},
					}, nil
				},
			},
			RetryDelays: noDelays(),
		}

		outcome, err := checker.Check(context.Background(), "https://shop.example.com/panier", nil)
		require.NoError(t, err)

		assert.Equal(t, whatfits.PageKindCart, outcome.Kind)
		require.NotNil(t, outcome.Cart)
		assert.Nil(t, outcome.Product)
		require.Len(t, outcome.Cart.Items, 1)
	})

	t.Run("treats unknown pages as products", func(t *testing.T) {
		t.Parallel()

		checker := &check.Checker{
			Fetcher: staticFetcher("<html>produit</html>"),
			Detector: &mock.PageDetector{
				DetectFn: func(string) whatfits.PageKind { return whatfits.PageKindUnknown },
			},
			Extractor:   productExtractor(),
			RetryDelays: noDelays(),
		}

		outcome, err := checker.Check(context.Background(), "https://shop.example.com/confiture", nil)
		require.NoError(t, err)

		assert.Equal(t, whatfits.PageKindProduct, outcome.Kind)
		require.NotNil(t, outcome.Product)
	})
}

func TestChecker_CheckCart(t *testing.T) {
	t.Parallel()

	t.Run("checks linked items via the product pipeline", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://shop.example.com/panier": "<html>panier</html>",
			"https://shop.example.com/the":    "<html>thé</html>",
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", whatfits.Errorf(whatfits.EUNAVAILABLE, "HTTP 404")
				}
				return html, nil
			},
		}

		checker := &check.Checker{
			Fetcher: fetcher,
			CartExtractor: &mock.CartExtractor{
				ExtractCartFn: func(_ string, sourceURL string) (*whatfits.Cart, error) {
					return &whatfits.Cart{
						SourceURL: sourceURL,
						Currency:  "EUR",
						Items: []whatfits.CartItem{
							{Title: "Thé vert sencha", Quantity: 1, UnitPrice: "3.5", ProductURL: "https://shop.example.com/the"},
							{Title: "Gélatine de porc", Quantity: 1, UnitPrice: "2.0"},
						},
					}, nil
				},
			},
			Extractor: &mock.ProductExtractor{
				ExtractProductFn: func(_ string, sourceURL string) (*whatfits.Product, error) {
					return &whatfits.Product{SourceURL: sourceURL, Title: "Thé vert sencha"}, nil
				},
			},
			RetryDelays: noDelays(),
		}

		result, err := checker.CheckCart(context.Background(), "https://shop.example.com/panier",
			&whatfits.Preferences{Diet: whatfits.DietVegan})
		require.NoError(t, err)

		require.Len(t, result.Items, 2)
		assert.Zero(t, result.Failed())

		// Linked item went through extraction
		require.NotNil(t, result.Items[0].Result)
		assert.Equal(t, "https://shop.example.com/the", result.Items[0].Result.Product.SourceURL)

		// Unlinked item was evaluated from the cart row alone
		require.NotNil(t, result.Items[1].Result)
		assert.Equal(t, "Gélatine de porc", result.Items[1].Result.Product.Title)
		assert.True(t, whatfits.AnyViolated(result.Items[1].Result.Findings))
	})

	t.Run("per-item failures are recorded, not fatal", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if url == "https://shop.example.com/panier" {
					return "<html>panier</html>", nil
				}
				return "", whatfits.Errorf(whatfits.EUNAVAILABLE, "HTTP 500")
			},
		}

		checker := &check.Checker{
			Fetcher: fetcher,
			CartExtractor: &mock.CartExtractor{
				ExtractCartFn: func(_ string, sourceURL string) (*whatfits.Cart, error) {
					return &whatfits.Cart{
						SourceURL: sourceURL,
						Items: []whatfits.CartItem{
							{Title: "Produit cassé", ProductURL: "https://shop.example.com/broken"},
							{Title: "Produit sans lien"},
						},
					}, nil
				},
			},
			RetryDelays: noDelays(),
		}

		result, err := checker.CheckCart(context.Background(), "https://shop.example.com/panier", nil)
		require.NoError(t, err)

		require.Len(t, result.Items, 2)
		assert.Equal(t, 1, result.Failed())
		assert.Error(t, result.Items[0].Err)
		assert.NoError(t, result.Items[1].Err)
	})

	t.Run("reports progress per item", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var completions []int
		total := 0

		checker := &check.Checker{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>panier</html>", nil
				},
			},
			CartExtractor: &mock.CartExtractor{
				ExtractCartFn: func(_ string, sourceURL string) (*whatfits.Cart, error) {
					return &whatfits.Cart{
						SourceURL: sourceURL,
						Items: []whatfits.CartItem{
							{Title: "Pommes"},
							{Title: "Poires"},
							{Title: "Prunes"},
						},
					}, nil
				},
			},
			RetryDelays: noDelays(),
			Progress: func(completed, n int, _ whatfits.CartItem) {
				mu.Lock()
				defer mu.Unlock()
				completions = append(completions, completed)
				total = n
			},
		}

		_, err := checker.CheckCart(context.Background(), "https://shop.example.com/panier", nil)
		require.NoError(t, err)

		assert.Equal(t, 3, total)
		assert.Len(t, completions, 3)
		assert.Contains(t, completions, 3)
	})
}

func TestChecker_FetchProduct(t *testing.T) {
	t.Parallel()

	checker := &check.Checker{
		Fetcher:     staticFetcher("<html>produit</html>"),
		Extractor:   productExtractor(),
		Products:    memoryProducts(),
		RetryDelays: noDelays(),
	}

	product, err := checker.FetchProduct(context.Background(), "https://shop.example.com/confiture")
	require.NoError(t, err)
	assert.Equal(t, "Confiture de fraises", product.Title)
	assert.NotEmpty(t, product.ContentHash)
}
