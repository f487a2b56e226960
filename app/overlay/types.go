package overlay

// StorageKey names the saved settings blob in the settings store.
const StorageKey = "obs_overlay_settings_v2"

// Prefectures lists every selectable prefecture in the standard order.
var Prefectures = []string{
	"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県",
	"岐阜県", "静岡県", "愛知県", "三重県",
	"滋賀県", "京都府", "大阪府", "兵庫県", "奈良県", "和歌山県",
	"鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県",
	"福岡県", "佐賀県", "長崎県", "熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県",
}

var prefectureSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Prefectures))
	for _, p := range Prefectures {
		set[p] = struct{}{}
	}
	return set
}()

// IsPrefecture reports whether name is one of the known prefectures.
func IsPrefecture(name string) bool {
	_, ok := prefectureSet[name]
	return ok
}

type Config struct {
	// Clock
	TimeOn   bool `json:"timeOn"`
	TimeDate bool `json:"timeDate"`
	TimeDow  bool `json:"timeDow"`
	TimeSec  bool `json:"timeSec"`
	Time24h  bool `json:"time24h"`

	// Earthquake
	QuakeOn       bool     `json:"quakeOn"`
	QuakeMinScale int      `json:"quakeMinScale"`
	QuakePageSec  int      `json:"quakePageSec"`
	QuakePerPage  int      `json:"quakePerPage"`
	QuakePollSec  int      `json:"quakePollSec"`
	QuakePrefs    []string `json:"quakePrefs"`
	QuakeProxy    string   `json:"quakeProxy"`
	QuakeSandbox  bool     `json:"quakeSandbox"`

	// Sound
	Sound1Min    int `json:"sound1Min"`
	Sound1Repeat int `json:"sound1Repeat"`
	Sound2Min    int `json:"sound2Min"`
	Sound2Repeat int `json:"sound2Repeat"`

	// News
	NewsOn       bool   `json:"newsOn"`
	NewsRSS      string `json:"newsRss"`
	NewsAgeHours int    `json:"newsAgeHours"`
	NewsSpeed    int    `json:"newsSpeed"`
	NewsExclude  string `json:"newsExclude"`
	NewsProxy    string `json:"newsProxy"`

	ShowStatus bool `json:"showStatus"`
	TestMode   bool `json:"testMode"`
}

// URLOptions carries the flags that only ever travel in an overlay URL.
type URLOptions struct {
	Sandbox bool
	Test    bool
}

// PrefSet returns the selected prefectures as a lookup set.
func (c Config) PrefSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.QuakePrefs))
	for _, p := range c.QuakePrefs {
		set[p] = struct{}{}
	}
	return set
}
