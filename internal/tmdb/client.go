// Package tmdb はTMDB (The Movie Database) APIのクライアントを提供する。
// タイトル検索と作品詳細取得の2つのエンドポイントのみを使用する。
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// Config はTMDBクライアントの設定を保持する。
type Config struct {
	APIKey       string
	BaseURL      string // 例: "https://api.themoviedb.org/3"
	ImageBaseURL string // 例: "https://image.tmdb.org/t/p/w500"
	Language     string // 例: "ko-KR"
}

// SearchResult はタイトル検索の1件分の結果を表す。
type SearchResult struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// searchResponse は/search/movieのレスポンスボディ。
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// MovieDetails は/movie/{id}のレスポンスから使用するフィールドのみを表す。
type MovieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Genres      []Genre `json:"genres"`
	ReleaseDate string  `json:"release_date"` // "YYYY-MM-DD"形式
	PosterPath  string  `json:"poster_path"`
}

// Genre はTMDBのジャンルを表す。
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client はTMDB APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	config     Config
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientにはタイムアウト設定済みのクライアントを渡す。
func NewClient(httpClient *http.Client, logger *slog.Logger, config Config) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		config:     config,
	}
}

// SearchByTitle はタイトルで映画を検索し、結果リストを返す。
// 該当なしの場合は空スライスを返す（エラーにはしない）。
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("query", title)

	body, err := c.get(ctx, "/search/movie", query)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("TMDB検索レスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("検索レスポンスのパースに失敗しました: %w", err)
	}

	return result.Results, nil
}

// GetMovieDetails は作品詳細を取得する。
func (c *Client) GetMovieDetails(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	body, err := c.get(ctx, "/movie/"+strconv.FormatInt(tmdbID, 10), url.Values{})
	if err != nil {
		return nil, err
	}

	var details MovieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		c.logger.Error("TMDB作品詳細レスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
			slog.Int64("tmdb_id", tmdbID),
		)
		return nil, fmt.Errorf("作品詳細レスポンスのパースに失敗しました: %w", err)
	}

	return &details, nil
}

// PosterURL はposter_pathから完全なポスター画像URLを組み立てる。
// poster_pathが空の場合は空文字列を返す。
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.config.ImageBaseURL + posterPath
}

// get は認証パラメータ付きでGETリクエストを実行し、レスポンスボディを返す。
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	query.Set("api_key", c.config.APIKey)
	if c.config.Language != "" {
		query.Set("language", c.config.Language)
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("TMDB APIの呼び出しに失敗しました",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("TMDB APIがエラーステータスを返しました",
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("TMDB APIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return body, nil
}
