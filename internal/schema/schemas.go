package schema

// Named schemas for every entity kind. Create schemas require the assembled
// record's identity fields; update schemas leave everything optional except
// what the lifecycle coordinator enforces as preconditions. Flag fields use
// range rules instead of "required" because 0 is a legal value.
//
// is_deleted is deliberately absent everywhere: only the trash manager may
// touch it.
var schemas = map[string]Schema{
	"exhibit.create": {
		"uuid":            "required,uuid4",
		"title":           "required,max=255",
		"subtitle":        "omitempty,max=255",
		"description":     "omitempty",
		"styles":          RuleObject,
		"hero_image":      "omitempty,max=255",
		"thumbnail_image": "omitempty,max=255",
		"owner":           "omitempty,max=100",
		"created_by":      "omitempty,max=100",
		"updated_by":      "omitempty,max=100",
	},
	"exhibit.update": {
		"uuid":            "omitempty,uuid4",
		"title":           "omitempty,max=255",
		"subtitle":        "omitempty,max=255",
		"description":     "omitempty",
		"styles":          RuleObject,
		"hero_image":      "omitempty,max=255",
		"thumbnail_image": "omitempty,max=255",
		"owner":           "omitempty,max=100",
		"is_published":    "omitempty,min=0,max=1",
		"is_locked":       "omitempty,min=0,max=1",
		"locked_by_user":  "omitempty,max=100",
		"updated_by":      "omitempty,max=100",
	},
	"heading.create": {
		"uuid":                 "required,uuid4",
		"is_member_of_exhibit": "required,uuid4",
		"text":                 "required,max=255",
		"order":                "omitempty,min=0",
		"styles":               RuleObject,
		"is_visible":           "omitempty,min=0,max=1",
		"is_anchor":            "omitempty,min=0,max=1",
		"is_published":         "omitempty,min=0,max=1",
		"created_by":           "omitempty,max=100",
		"updated_by":           "omitempty,max=100",
	},
	"heading.update": {
		"uuid":           "omitempty,uuid4",
		"text":           "omitempty,max=255",
		"order":          "omitempty,min=0",
		"styles":         RuleObject,
		"is_visible":     "omitempty,min=0,max=1",
		"is_anchor":      "omitempty,min=0,max=1",
		"is_published":   "omitempty,min=0,max=1",
		"is_locked":      "omitempty,min=0,max=1",
		"locked_by_user": "omitempty,max=100",
		"updated_by":     "omitempty,max=100",
	},
	"item.create": {
		"uuid":                 "required,uuid4",
		"is_member_of_exhibit": "required,uuid4",
		"order":                "omitempty,min=0",
		"columns":              "omitempty,min=1,max=12",
		"item_type":            "omitempty,max=50",
		"media":                "omitempty,max=255",
		"thumbnail":            "omitempty,max=255",
		"text":                 "omitempty",
		"caption":              "omitempty,max=255",
		"styles":               RuleObject,
		"is_published":         "omitempty,min=0,max=1",
		"created_by":           "omitempty,max=100",
		"updated_by":           "omitempty,max=100",
	},
	"item.update": {
		"uuid":           "omitempty,uuid4",
		"order":          "omitempty,min=0",
		"columns":        "omitempty,min=1,max=12",
		"item_type":      "omitempty,max=50",
		"media":          "omitempty,max=255",
		"thumbnail":      "omitempty,max=255",
		"text":           "omitempty",
		"caption":        "omitempty,max=255",
		"styles":         RuleObject,
		"is_published":   "omitempty,min=0,max=1",
		"is_locked":      "omitempty,min=0,max=1",
		"locked_by_user": "omitempty,max=100",
		"updated_by":     "omitempty,max=100",
	},
	"grid.create": {
		"uuid":                 "required,uuid4",
		"is_member_of_exhibit": "required,uuid4",
		"order":                "omitempty,min=0",
		"columns":              "omitempty,min=1,max=12",
		"title":                "omitempty,max=255",
		"text":                 "omitempty",
		"styles":               RuleObject,
		"is_published":         "omitempty,min=0,max=1",
		"created_by":           "omitempty,max=100",
		"updated_by":           "omitempty,max=100",
	},
	"grid.update": {
		"uuid":           "omitempty,uuid4",
		"order":          "omitempty,min=0",
		"columns":        "omitempty,min=1,max=12",
		"title":          "omitempty,max=255",
		"text":           "omitempty",
		"styles":         RuleObject,
		"is_published":   "omitempty,min=0,max=1",
		"is_locked":      "omitempty,min=0,max=1",
		"locked_by_user": "omitempty,max=100",
		"updated_by":     "omitempty,max=100",
	},
	"grid_item.create": {
		"uuid":                 "required,uuid4",
		"is_member_of_exhibit": "required,uuid4",
		"is_member_of_grid":    "required,uuid4",
		"order":                "omitempty,min=0",
		"item_type":            "omitempty,max=50",
		"media":                "omitempty,max=255",
		"thumbnail":            "omitempty,max=255",
		"text":                 "omitempty",
		"caption":              "omitempty,max=255",
		"styles":               RuleObject,
		"is_published":         "omitempty,min=0,max=1",
		"created_by":           "omitempty,max=100",
		"updated_by":           "omitempty,max=100",
	},
	"grid_item.update": {
		"uuid":           "omitempty,uuid4",
		"order":          "omitempty,min=0",
		"item_type":      "omitempty,max=50",
		"media":          "omitempty,max=255",
		"thumbnail":      "omitempty,max=255",
		"text":           "omitempty",
		"caption":        "omitempty,max=255",
		"styles":         RuleObject,
		"is_published":   "omitempty,min=0,max=1",
		"is_locked":      "omitempty,min=0,max=1",
		"locked_by_user": "omitempty,max=100",
		"updated_by":     "omitempty,max=100",
	},
}
