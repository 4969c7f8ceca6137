package covers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/utils"

	"github.com/gocolly/colly/v2"
)

var ErrCoverNotFound = errors.New("cover not found")

// OpenLibraryResolver scrapes the Open Library search page for a cover
// image URL matching a title/author pair.
type OpenLibraryResolver struct {
	cfg *config.Config
}

func NewOpenLibraryResolver(cfg *config.Config) *OpenLibraryResolver {
	return &OpenLibraryResolver{cfg: cfg}
}

func (o *OpenLibraryResolver) getCollector() (*colly.Collector, error) {
	op := "OpenLibraryResolver.getCollector"
	c := colly.NewCollector()

	if o.cfg.Covers.ProxyUrl != "" {
		err := c.SetProxy(o.cfg.Covers.ProxyUrl)
		if err != nil {
			slog.Error(
				"Failed to set proxy",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return nil, err
		}
	}

	return c, nil
}

func (o *OpenLibraryResolver) Resolve(ctx context.Context, title string, author string) (coverUrl string, err error) {
	op := "OpenLibraryResolver.Resolve"
	rqID := utils.GetRequestIDFromCtx(ctx)

	c, err := o.getCollector()
	if err != nil {
		return "", err
	}

	c.OnHTML(".searchResultItem img.bookcover", func(e *colly.HTMLElement) {
		if coverUrl != "" {
			return
		}

		src := strings.TrimSpace(e.Attr("src"))
		if src == "" {
			return
		}
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		coverUrl = src
	})

	searchUrl := fmt.Sprintf(
		"%s/search?title=%s&author=%s",
		o.cfg.Covers.BaseUrl,
		url.QueryEscape(title),
		url.QueryEscape(author),
	)

	if err = c.Visit(searchUrl); err != nil {
		slog.Error(
			"Failed to visit search page",
			slog.String("op", op),
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("url", searchUrl),
		)
		return "", err
	}

	if coverUrl == "" {
		slog.Warn("no cover on search page", slog.String("op", op), slog.String("rqID", rqID), slog.String("title", title), slog.String("author", author))
		return "", ErrCoverNotFound
	}

	return coverUrl, nil
}
