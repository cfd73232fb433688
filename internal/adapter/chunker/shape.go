package chunker

import "encoding/json"

// docShape tags the three raw document layouts produced by the scraper: a
// bare list of records, an object wrapping records in an "items" field, or a
// single record object.
type docShape int

const (
	shapeInvalid docShape = iota
	shapeList
	shapeItems
	shapeObject
)

// classifyShape resolves the document layout and flattens it to a list of
// record objects. It is a pure function; extraction dispatches on its result.
func classifyShape(raw []byte) (docShape, []map[string]any) {
	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		items := decodeObjects(asList)
		if items == nil {
			return shapeInvalid, nil
		}
		return shapeList, items
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return shapeInvalid, nil
	}

	if itemsRaw, ok := asObject["items"]; ok {
		var inner []json.RawMessage
		if err := json.Unmarshal(itemsRaw, &inner); err == nil {
			items := decodeObjects(inner)
			if items == nil {
				return shapeInvalid, nil
			}
			return shapeItems, items
		}
	}

	var single map[string]any
	if err := json.Unmarshal(raw, &single); err != nil {
		return shapeInvalid, nil
	}
	return shapeObject, []map[string]any{single}
}

func decodeObjects(raws []json.RawMessage) []map[string]any {
	items := make([]map[string]any, 0, len(raws))
	for _, r := range raws {
		var obj map[string]any
		if err := json.Unmarshal(r, &obj); err != nil {
			// Non-object entries carry no indexable fields.
			continue
		}
		items = append(items, obj)
	}
	return items
}

func getString(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(obj map[string]any, key string) float64 {
	if v, ok := obj[key].(float64); ok {
		return v
	}
	return 0
}

func getList(obj map[string]any, key string) []any {
	if v, ok := obj[key].([]any); ok {
		return v
	}
	return nil
}

func getStrings(obj map[string]any, key string) []string {
	items := getList(obj, key)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
