package agents

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/sprout-sh/sprout/pkg/errors"
)

// MergeJSON deep-merges two JSON documents. Keys present on only one
// side are kept; when both sides carry an object the merge recurses;
// any other conflict keeps ours. mcp.json goes through this so a rerun
// never loses locally configured servers.
func MergeJSON(ours, theirs []byte) ([]byte, error) {
	if len(bytes.TrimSpace(ours)) == 0 {
		return theirs, nil
	}
	if len(bytes.TrimSpace(theirs)) == 0 {
		return ours, nil
	}
	if !gjson.ValidBytes(ours) || !gjson.ValidBytes(theirs) {
		return nil, errors.New(errors.ErrMerge, "cannot deep-merge invalid JSON")
	}

	oursDoc := gjson.ParseBytes(ours)
	theirsDoc := gjson.ParseBytes(theirs)
	if !oursDoc.IsObject() || !theirsDoc.IsObject() {
		// Only objects merge; on any other shape the preserved side wins.
		return ours, nil
	}

	out := ours
	var mergeErr error
	theirsDoc.ForEach(func(key, value gjson.Result) bool {
		path := escapeKey(key.String())
		existing := gjson.GetBytes(out, path)

		switch {
		case !existing.Exists():
			out, mergeErr = sjson.SetRawBytes(out, path, []byte(value.Raw))
		case existing.IsObject() && value.IsObject():
			var merged []byte
			merged, mergeErr = MergeJSON([]byte(existing.Raw), []byte(value.Raw))
			if mergeErr == nil {
				out, mergeErr = sjson.SetRawBytes(out, path, merged)
			}
		}
		// Any other conflict: ours wins, nothing to write.
		return mergeErr == nil
	})
	if mergeErr != nil {
		return nil, errors.Wrap(mergeErr, errors.ErrMerge, "JSON deep merge failed")
	}
	return out, nil
}

// keyEscaper escapes gjson/sjson path metacharacters so a literal map
// key round-trips through GetBytes and SetRawBytes.
var keyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
