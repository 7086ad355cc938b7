package repo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/cache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLinkNotFound = errors.New("app link not found")
var ErrSlugAlreadyExists = errors.New("slug already exists")

// AppLink 是一条托管短链：/p/:slug 跳到对应应用的解析流程。
type AppLink struct {
	Slug      string    `json:"slug"`
	AppID     string    `json:"app_id"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppLinksRepo 负责 slug -> app_id 的查询。
// 布隆过滤器先挡掉一定不存在的 slug，公网上扫垃圾路径的流量不少，
// 没必要每次都打到数据库。
type AppLinksRepo struct {
	db     *pgxpool.Pool
	filter *cache.BloomFilter
}

func NewAppLinksRepo(db *pgxpool.Pool, filter *cache.BloomFilter) *AppLinksRepo {
	return &AppLinksRepo{
		db:     db,
		filter: filter,
	}
}

// WarmFilter 启动时把已有 slug 灌进布隆过滤器。
func (r *AppLinksRepo) WarmFilter(ctx context.Context) error {
	if r.filter == nil {
		return nil
	}
	dbctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(dbctx, `SELECT slug FROM app_links`)
	if err != nil {
		return err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return err
		}
		r.filter.Add(slug)
		n++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	slog.Info("布隆过滤器预热完成", "slugs", n)
	return nil
}

// ResolveSlug 把 slug 解析成应用标识符。
func (r *AppLinksRepo) ResolveSlug(ctx context.Context, slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", ErrLinkNotFound
	}

	// 一定不存在的 slug 连数据库都不用问
	if r.filter != nil && !r.filter.MightExist(slug) {
		return "", ErrLinkNotFound
	}

	dbctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var appID string
	err := r.db.QueryRow(dbctx, `SELECT app_id FROM app_links WHERE slug=$1 AND disabled=false`, slug).Scan(&appID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		slog.Error(err.Error())
		return "", err
	}
	return appID, nil
}

// Create 创建一条短链。只做解析引擎需要的最小 CRUD。
func (r *AppLinksRepo) Create(ctx context.Context, slug, appID string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := applink.ValidateSlug(slug); err != nil {
		return err
	}
	if applink.Detect(appID) == applink.PlatformUnknown {
		return applink.ErrInvalidIdentifier
	}

	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.db.Exec(dbctx,
		`INSERT INTO app_links (slug, app_id, disabled) VALUES ($1, $2, false) ON CONFLICT (slug) DO NOTHING`,
		slug, appID)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlugAlreadyExists
	}

	if r.filter != nil {
		r.filter.Add(slug)
	}
	return nil
}

// FindBySlug 返回短链明细（含点击计数）。
func (r *AppLinksRepo) FindBySlug(ctx context.Context, slug string) (*AppLink, error) {
	dbctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var link AppLink
	if err := r.db.
		QueryRow(dbctx, `SELECT slug, app_id, clicks, created_at, updated_at FROM app_links WHERE slug=$1`, slug).
		Scan(&link.Slug, &link.AppID, &link.Clicks, &link.CreatedAt, &link.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		slog.Error(err.Error())
		return nil, err
	}
	return &link, nil
}
