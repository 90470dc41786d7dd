package catalog

// File is the on-disk catalog: category name -> ordered item entries.
//
//	{
//	  "Nature": [
//	    {"title": "...", "type": "book", "link": "https://...", "image": "...", "description": "..."}
//	  ]
//	}
type File map[string][]ItemProps

// ItemProps holds one entry as written in the catalog file.
// Link is optional; an empty string is treated as absent.
type ItemProps struct {
	Title       string `json:"title" yaml:"title"`
	Type        string `json:"type" yaml:"type"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description" yaml:"description"`
}
