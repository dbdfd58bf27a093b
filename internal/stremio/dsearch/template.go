package stremio_dsearch

import (
	"bytes"
	_ "embed"
	"html/template"

	store_registry "github.com/nguyenvanvutlv/resolver/internal/store/registry"
	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
)

type ConfigType string

const (
	ConfigTypeCheckbox ConfigType = "checkbox"
	ConfigTypePassword ConfigType = "password"
	ConfigTypeSelect   ConfigType = "select"
	ConfigTypeText     ConfigType = "text"
	ConfigTypeTextarea ConfigType = "textarea"
)

type ConfigOption struct {
	Value    string
	Label    string
	Selected bool
}

type Config struct {
	Key         string
	Type        ConfigType
	Default     string
	Title       string
	Description template.HTML
	Options     []ConfigOption
	Required    bool
	Error       string
}

type TemplateData struct {
	Title       string
	Description string
	Version     string

	Configs []Config

	Error       string
	ManifestURL string
	InstallURL  string
}

func (td *TemplateData) HasFieldError() bool {
	for i := range td.Configs {
		if td.Configs[i].Error != "" {
			return true
		}
	}
	return false
}

func (td *TemplateData) setFieldError(key, msg string) {
	for i := range td.Configs {
		if td.Configs[i].Key == key {
			td.Configs[i].Error = msg
			return
		}
	}
	td.Error = msg
}

func getStoreCodeOptions(selected string) []ConfigOption {
	options := []ConfigOption{}
	for _, name := range store_registry.Names() {
		code := string(name.Code())
		options = append(options, ConfigOption{
			Value:    code,
			Label:    string(name),
			Selected: code == selected,
		})
	}
	return options
}

func toCheckboxDefault(checked bool) string {
	if checked {
		return "checked"
	}
	return ""
}

func getTemplateData(ud *UserData) *TemplateData {
	return &TemplateData{
		Title:       addonName,
		Description: "Stremio addon to search the media in your debrid account",
		Version:     manifestVersion,
		Configs: []Config{
			{
				Key:      "store",
				Type:     ConfigTypeSelect,
				Default:  string(ud.StoreCode),
				Title:    "Debrid Service",
				Options:  getStoreCodeOptions(string(ud.StoreCode)),
				Required: true,
			},
			{
				Key:      "token",
				Type:     ConfigTypePassword,
				Default:  ud.StoreToken,
				Title:    "API Token",
				Required: true,
			},
			{
				Key:     "catalog",
				Type:    ConfigTypeCheckbox,
				Default: toCheckboxDefault(ud.ShowCatalog),
				Title:   "Show Catalog",
			},
			{
				Key:         "sort",
				Type:        ConfigTypeText,
				Default:     ud.Sort,
				Title:       "Stream Sort",
				Description: template.HTML("Comma separated fields: <code>score</code>, <code>size</code>, <code>resolution</code>, <code>quality</code>. Prefix with <code>-</code> for reverse sort. Default: <code>" + stremio_transformer.DefaultStreamSort + "</code>"),
			},
			{
				Key:         "filter",
				Type:        ConfigTypeTextarea,
				Default:     ud.Filter,
				Title:       "Stream Filter",
				Description: template.HTML(`Expression, e.g. <code>Resolution &gt;= "1080p" &amp;&amp; File.Size &lt; "20 GB"</code>`),
			},
		},
	}
}

//go:embed configure.html
var configureHTML string

var configureTemplate = template.Must(template.New("configure").Parse(configureHTML))

func getPage(td *TemplateData) (bytes.Buffer, error) {
	var buf bytes.Buffer
	err := configureTemplate.Execute(&buf, td)
	return buf, err
}
