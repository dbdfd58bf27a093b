package store

import (
	"context"
	"strings"
	"time"

	"github.com/nguyenvanvutlv/resolver/internal/request"
)

type StoreName string

const (
	StoreNameAllDebrid  StoreName = "alldebrid"
	StoreNameDebridLink StoreName = "debridlink"
	StoreNamePremiumize StoreName = "premiumize"
	StoreNameRealDebrid StoreName = "realdebrid"
	StoreNameTorBox     StoreName = "torbox"
)

type StoreCode string

const (
	StoreCodeAllDebrid  StoreCode = "ad"
	StoreCodeDebridLink StoreCode = "dl"
	StoreCodePremiumize StoreCode = "pm"
	StoreCodeRealDebrid StoreCode = "rd"
	StoreCodeTorBox     StoreCode = "tb"
)

var storeCodeByName = map[StoreName]StoreCode{
	StoreNameAllDebrid:  StoreCodeAllDebrid,
	StoreNameDebridLink: StoreCodeDebridLink,
	StoreNamePremiumize: StoreCodePremiumize,
	StoreNameRealDebrid: StoreCodeRealDebrid,
	StoreNameTorBox:     StoreCodeTorBox,
}

var storeNameByCode = map[StoreCode]StoreName{
	StoreCodeAllDebrid:  StoreNameAllDebrid,
	StoreCodeDebridLink: StoreNameDebridLink,
	StoreCodePremiumize: StoreNamePremiumize,
	StoreCodeRealDebrid: StoreNameRealDebrid,
	StoreCodeTorBox:     StoreNameTorBox,
}

func (sn StoreName) IsValid() bool {
	_, ok := storeCodeByName[sn]
	return ok
}

func (sn StoreName) Code() StoreCode {
	return storeCodeByName[sn]
}

func (sc StoreCode) IsValid() bool {
	_, ok := storeNameByCode[sc]
	return ok
}

func (sc StoreCode) Name() StoreName {
	return storeNameByCode[sc]
}

// Label is the short upper-case tag shown in stream names, e.g. "RD".
func (sc StoreCode) Label() string {
	return strings.ToUpper(string(sc))
}

type Ctx = request.Ctx

type UserSubscriptionStatus string

const (
	UserSubscriptionStatusPremium UserSubscriptionStatus = "premium"
	UserSubscriptionStatusTrial   UserSubscriptionStatus = "trial"
	UserSubscriptionStatusExpired UserSubscriptionStatus = "expired"
)

type User struct {
	Id                 string                 `json:"id"`
	Email              string                 `json:"email"`
	SubscriptionStatus UserSubscriptionStatus `json:"subscription_status"`
}

type GetUserParams struct {
	Ctx
}

type ItemKind string

const (
	// stored torrent, files need detail expansion
	ItemKindTorrent ItemKind = "torrent"
	// saved hoster link, already a single file
	ItemKindDirect ItemKind = "direct"
	// generated download, already a single file
	ItemKindDownload ItemKind = "download"
)

func (k ItemKind) IsSingleFile() bool {
	return k == ItemKindDirect || k == ItemKindDownload
}

type File struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Link     string `json:"link,omitempty"`
	Selected bool   `json:"selected"`
}

type Item struct {
	Id      string    `json:"id"`
	Name    string    `json:"name"`
	Hash    string    `json:"hash,omitempty"`
	Size    int64     `json:"size"`
	AddedAt time.Time `json:"added_at"`
	Kind    ItemKind  `json:"kind"`
	Link    string    `json:"link,omitempty"`
	// nil when the listing does not carry files
	Files []File `json:"files,omitempty"`
}

type ListItemsParams struct {
	Ctx
	Query string
	// 0 means no limit
	Limit  int
	Offset int
}

type ListItemsData struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`
	// Query was applied by the backend itself
	IsSearched bool `json:"-"`
}

type GetItemParams struct {
	Ctx
	Id string
}

type GetItemData struct {
	Item
	// files exist but none is selected/linked yet
	NeedsFileSelection bool `json:"-"`
}

type SelectFilesParams struct {
	Ctx
	Id string
}

type UnlockLinkParams struct {
	Ctx
	Link   string
	ItemId string
	FileId string
}

type UnlockLinkData struct {
	Link string `json:"link"`
}

type Store interface {
	GetName() StoreName
	GetUser(ctx context.Context, params *GetUserParams) (*User, error)
	ListItems(ctx context.Context, params *ListItemsParams) (*ListItemsData, error)
	GetItem(ctx context.Context, params *GetItemParams) (*GetItemData, error)
	UnlockLink(ctx context.Context, params *UnlockLinkParams) (*UnlockLinkData, error)
}

// FileSelector is implemented by stores that hold torrents whose files must
// be selected before links exist.
type FileSelector interface {
	SelectAllFiles(ctx context.Context, params *SelectFilesParams) error
}
