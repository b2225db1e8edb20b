package tasks

import "encoding/json"

func decodeRaw(raw map[string]interface{}, target interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}

func encodeToMap(source interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mergeRaw writes our fields into the shared record without touching keys
// owned by the other platform services, recursing into nested objects.
func mergeRaw(dst map[string]interface{}, src map[string]interface{}) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]interface{})
		dstMap, dstIsMap := dst[key].(map[string]interface{})
		if srcIsMap && dstIsMap {
			mergeRaw(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
}
