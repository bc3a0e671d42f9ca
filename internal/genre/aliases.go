package genre

// aliases maps common slug variations onto the slug of a Known genre.
var aliases = map[string]string{
	// Science fiction
	"sci-fi":  "science-fiction",
	"scifi":   "science-fiction",
	"sf":      "science-fiction",
	"sci-fic": "science-fiction",

	// Fantasy
	"high-fantasy":      "fantasy",
	"epic-fantasy":      "fantasy",
	"urban-fantasy":     "fantasy",
	"dark-fantasy":      "fantasy",
	"sword-and-sorcery": "fantasy",
	"romantasy":         "fantasy",

	// Mystery and thriller
	"mystery-detective":      "mystery",
	"detective":              "mystery",
	"crime":                  "mystery",
	"cozy-mystery":           "mystery",
	"noir":                   "mystery",
	"suspense":               "thriller",
	"psychological-thriller": "thriller",

	// Romance
	"romantic":             "romance",
	"love-stories":         "romance",
	"contemporary-romance": "romance",
	"paranormal-romance":   "romance",

	// Horror
	"scary":         "horror",
	"ghost-stories": "horror",
	"gothic":        "horror",

	// Everything else
	"historical":            "historical-fiction",
	"nonfiction":            "non-fiction",
	"biographies-memoirs":   "biography",
	"biography-memoir":      "biography",
	"autobiography":         "memoir",
	"self-improvement":      "self-help",
	"selfhelp":              "self-help",
	"personal-development":  "self-help",
	"ya":                    "young-adult",
	"teen":                  "young-adult",
	"teens-young-adult":     "young-adult",
	"juvenile-fiction":      "children-s",
	"childrens":             "children-s",
	"comics-graphic-novels": "graphic-novels",
	"comics":                "comics-humor",
	"humor":                 "comics-humor",
	"cooking":               "cookbooks",
	"business":              "business-economics",
	"economics":             "business-economics",
	"religion":              "religion-spirituality",
	"science":               "science-technology",
	"technology":            "science-technology",
	"computers":             "science-technology",
	"art":                   "art-photography",
	"photography":           "art-photography",
	"health-fitness":        "health-wellness",
	"lgbt":                  "lgbtq",
	"lgbtqia":               "lgbtq",
	"myths":                 "mythology",
	"fairy-tales":           "folklore",
	"classic":               "classics",
	"western-fiction":       "western",
	"dystopia":              "dystopian",
	"action-adventure":      "adventure",
}
