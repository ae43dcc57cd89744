package source

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/shouni/go-proverbs-kit/pkg/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ErrUnknownTranslation はカタログに無い翻訳コードが指定されたことを示します。
var ErrUnknownTranslation = errors.New("unknown translation")

// catalogFile は YAML の構造そのものなのだ。
type catalogFile struct {
	Book         string               `yaml:"book"`
	Default      string               `yaml:"default"`
	Translations []domain.Translation `yaml:"translations"`
}

// Catalog は翻訳コードからデータ取得先を引くための一覧です。
type Catalog struct {
	book         string
	defaultCode  string
	translations map[string]domain.Translation
	order        []string
}

// DefaultCatalog は埋め込みの catalog.yaml からカタログを作るのだ。
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalogFile は YAML ファイルからカタログを読み込みます。
// path が空なら埋め込みのカタログを使うのだ。
func LoadCatalogFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("カタログファイルの読み込みに失敗したのだ: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog は YAML バイト列をパースして検証します。
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("カタログのデコードに失敗したのだ: %w", err)
	}
	if len(f.Translations) == 0 {
		return nil, errors.New("catalog has no translations")
	}

	c := &Catalog{
		book:         f.Book,
		translations: make(map[string]domain.Translation, len(f.Translations)),
	}
	if c.book == "" {
		c.book = domain.DefaultBook
	}
	for _, t := range f.Translations {
		t.Code = domain.NormalizeTranslation(t.Code)
		if t.Code == "" {
			return nil, errors.New("catalog entry without code")
		}
		if strings.TrimSpace(t.URL) == "" {
			return nil, fmt.Errorf("catalog entry %q has no url", t.Code)
		}
		if _, dup := c.translations[t.Code]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", t.Code)
		}
		if t.Name == "" {
			t.Name = strings.ToUpper(t.Code)
		}
		c.translations[t.Code] = t
		c.order = append(c.order, t.Code)
	}

	c.defaultCode = domain.NormalizeTranslation(f.Default)
	if c.defaultCode == "" {
		c.defaultCode = c.order[0]
	}
	if _, ok := c.translations[c.defaultCode]; !ok {
		return nil, fmt.Errorf("default translation %q is not in the catalog", c.defaultCode)
	}
	return c, nil
}

// Lookup は翻訳コードから定義を返すのだ。
func (c *Catalog) Lookup(code string) (domain.Translation, error) {
	t, ok := c.translations[domain.NormalizeTranslation(code)]
	if !ok {
		return domain.Translation{}, fmt.Errorf("%w: %q", ErrUnknownTranslation, code)
	}
	return t, nil
}

// Codes はカタログ記載順の翻訳コード一覧なのだ。
func (c *Catalog) Codes() []string {
	return slices.Clone(c.order)
}

// Default は既定の翻訳コードです。
func (c *Catalog) Default() string { return c.defaultCode }

// Book は書名なのだ。
func (c *Catalog) Book() string { return c.book }

// ParallelFor は並列表示で使う相手の翻訳を選びます。
// 既定の翻訳を優先し、それが primary と同じならカタログ上の次の翻訳にするのだ。
func (c *Catalog) ParallelFor(primary string) (string, bool) {
	primary = domain.NormalizeTranslation(primary)
	if c.defaultCode != primary {
		return c.defaultCode, true
	}
	for _, code := range c.order {
		if code != primary {
			return code, true
		}
	}
	return "", false
}
