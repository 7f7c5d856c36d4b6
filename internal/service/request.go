package service

// Action names the eight service-mode operations a client may request.
type Action string

const (
	ActionNewIndex    Action = "NewIndex"
	ActionAddFile     Action = "AddFile"
	ActionAddRecord   Action = "AddRecord"
	ActionAddDir      Action = "AddDir"
	ActionBuildIndex  Action = "BuildIndex"
	ActionWriteFiles  Action = "WriteFiles"
	ActionGetFiles    Action = "GetFiles"
	ActionDeleteIndex Action = "DeleteIndex"
)

// NewIndexConfig is the optional per-index configuration a NewIndex
// request may supply, overriding the server's defaults for that index
// only.
type NewIndexConfig struct {
	ForceLanguage    string   `json:"force_language,omitempty"`
	ExcludeSelectors []string `json:"exclude_selectors,omitempty"`
}

// RequestPayload is every service-mode request action flattened into one
// struct, discriminated by Type. Unused fields for a given action are
// left zero-valued; this is the idiomatic Go stand-in for the tagged
// union the wire format's "type" field encodes.
type RequestPayload struct {
	Type Action `json:"type"`

	// NewIndex
	Config *NewIndexConfig `json:"config,omitempty"`

	// AddFile, AddRecord, AddDir, BuildIndex, WriteFiles, GetFiles, DeleteIndex
	IndexID uint32 `json:"index_id"`

	// AddFile (file_path and/or url, one required) and AddRecord (url required)
	FilePath     *string `json:"file_path,omitempty"`
	URL          *string `json:"url,omitempty"`
	FileContents string  `json:"file_contents,omitempty"`

	// AddRecord
	Content  string            `json:"content,omitempty"`
	Language string            `json:"language,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
	Filters  map[string][]string `json:"filters,omitempty"`
	Sort     map[string]string `json:"sort,omitempty"`

	// AddDir
	Path string  `json:"path,omitempty"`
	Glob *string `json:"glob,omitempty"`

	// WriteFiles
	OutputPath *string `json:"output_path,omitempty"`
}

// Request is one framed request: a message id plus its action payload.
type Request struct {
	MessageID uint32         `json:"message_id"`
	Payload   RequestPayload `json:"payload"`
}
