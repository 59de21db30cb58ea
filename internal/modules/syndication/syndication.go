// Package syndication publishes the sitemap and the article RSS feed of the
// public site.
package syndication

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/content/article"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	feedSize = 20

	siteNameKey        = "site.name"
	siteDescriptionKey = "site.description"
	defaultSiteName    = "EBGreentek"
)

type Service struct {
	db       *gorm.DB
	articles *article.Service
	siteURL  string
	now      func() time.Time
}

func NewService(db *gorm.DB, articles *article.Service, siteURL string) *Service {
	return &Service{db: db, articles: articles, siteURL: siteURL, now: time.Now}
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// Sitemap lists the home page, active products and visible articles.
func (s *Service) Sitemap() ([]sitemapURL, error) {
	now := s.now()
	urls := []sitemapURL{{
		Loc: s.siteURL + "/", LastMod: now.Format("2006-01-02"),
		ChangeFreq: "daily", Priority: 1.0,
	}}

	var products []models.ProductModel
	if err := s.db.Select("id", "updated_at").
		Where("status = ?", models.StatusActive).
		Order(models.ProductDefaultOrder).
		Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/products/%s", s.siteURL, p.ID),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}

	var articles []models.ArticleModel
	if err := s.db.Select("id", "updated_at").
		Where("status = ? AND published_at <= ?", models.ArticleStatusPublished, now).
		Order("published_at DESC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:        fmt.Sprintf("%s/articles/%s", s.siteURL, a.ID),
			LastMod:    a.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   0.6,
		})
	}
	return urls, nil
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category,omitempty"`
	Description string `xml:"description"`
}

// Feed builds the RSS channel of the latest visible articles. The channel
// title and description come from the site.name and site.description
// settings.
func (s *Service) Feed() (*rss, error) {
	articles, err := s.articles.Latest(feedSize)
	if err != nil {
		return nil, err
	}
	title, err := s.settingValue(siteNameKey, defaultSiteName)
	if err != nil {
		return nil, err
	}
	desc, err := s.settingValue(siteDescriptionKey, "")
	if err != nil {
		return nil, err
	}

	ch := channel{
		Title:         title,
		Link:          s.siteURL + "/",
		Description:   desc,
		LastBuildDate: s.now().Format(time.RFC1123Z),
		Items:         make([]item, 0, len(articles)),
	}
	for _, a := range articles {
		it := item{
			Title:       a.Title,
			Link:        fmt.Sprintf("%s/articles/%s", s.siteURL, a.ID),
			GUID:        a.ID,
			Category:    a.Category,
			Description: a.Excerpt,
		}
		if a.PublishedAt != nil {
			it.PubDate = a.PublishedAt.Format(time.RFC1123Z)
		}
		ch.Items = append(ch.Items, it)
	}
	return &rss{Version: "2.0", Channel: ch}, nil
}

func (s *Service) settingValue(key, fallback string) (string, error) {
	var setting models.SettingModel
	err := s.db.Select("setting_value").Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && setting.Value == "") {
		return fallback, nil
	}
	return setting.Value, err
}

// RegisterRoutes mounts /sitemap.xml and /feed.xml.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("/sitemap.xml", func(c *gin.Context) {
		urls, err := svc.Sitemap()
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "error generating sitemap")
			return
		}
		writeXML(c, "application/xml; charset=utf-8", urlSet{
			XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
			URLs:  urls,
		})
	})
	rg.GET("/feed.xml", func(c *gin.Context) {
		feed, err := svc.Feed()
		if err != nil {
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "error generating feed")
			return
		}
		writeXML(c, "application/rss+xml; charset=utf-8", feed)
	})
}

func writeXML(c *gin.Context, contentType string, v interface{}) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "error encoding xml")
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), body...))
}
