package stremio_dsearch

import (
	"net/http"

	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/stremio"
)

const (
	manifestId      = "community.resolver.dsearch"
	manifestVersion = "1.0.0"
	catalogId       = "dsearch"
)

func GetManifest(ud *UserData) *stremio.Manifest {
	isConfigured := ud != nil && ud.HasRequiredValues()

	manifest := &stremio.Manifest{
		ID:          manifestId,
		Name:        addonName,
		Description: "Search your debrid account for movies and series you already have.",
		Version:     manifestVersion,
		Resources: []stremio.Resource{
			{
				Name:       stremio.ResourceNameStream,
				Types:      []stremio.ContentType{stremio.ContentTypeMovie, stremio.ContentTypeSeries},
				IDPrefixes: []string{"tt"},
			},
		},
		Types:    []stremio.ContentType{stremio.ContentTypeMovie, stremio.ContentTypeSeries},
		Catalogs: []stremio.Catalog{},
		BehaviorHints: &stremio.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: !isConfigured,
		},
	}

	if isConfigured && ud.ShowCatalog {
		manifest.Resources = append(manifest.Resources, stremio.Resource{
			Name:  stremio.ResourceNameCatalog,
			Types: []stremio.ContentType{stremio.ContentTypeOther},
		})
		manifest.Types = append(manifest.Types, stremio.ContentTypeOther)
		manifest.Catalogs = append(manifest.Catalogs, stremio.Catalog{
			Type: stremio.ContentTypeOther,
			Id:   catalogId,
			Name: addonName + " " + ud.StoreCode.Label(),
			Extra: []stremio.CatalogExtra{
				{Name: "search"},
				{Name: "skip"},
			},
		})
	}

	return manifest
}

func handleManifest(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) && !shared.IsMethod(r, http.MethodHead) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	ud, err := getUserData(r)
	if err != nil {
		shared.SendError(w, r, err)
		return
	}

	shared.SendJSON(w, r, http.StatusOK, GetManifest(ud))
}
