package formatting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// jsonIndent is the indentation unit for pretty-printed JSON output.
const jsonIndent = "    "

// PrettyJSON formats any value as indented JSON for human-readable
// display. It handles marshaling errors gracefully by falling back to
// fmt.Sprintf.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// PrintJSON writes v as pretty-printed JSON to w, syntax-highlighted when
// w supports color. The highlighted output stripped of color codes is
// byte-identical to the plain output.
func PrintJSON(w io.Writer, v interface{}) {
	output := strings.TrimSpace(PrettyJSON(v))

	if ColorEnabled(w) {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, output, "json", "terminal256", "monokai"); err == nil {
			fmt.Fprintln(w, strings.TrimSpace(highlighted.String()))
			return
		}
	}

	fmt.Fprintln(w, output)
}
