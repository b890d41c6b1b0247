package chat

// FunctionTool is the wire descriptor for an MCP-discovered tool.
type FunctionTool struct {
	Type     string             `json:"type"`
	Function FunctionDescriptor `json:"function"`
}

// FunctionDescriptor names a callable and its JSON-Schema parameters.
type FunctionDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// BuiltinTool is a provider-hosted tool descriptor. It carries only a
// type tag; the provider executes it and surfaces results in the stream
// as executed_tools.
type BuiltinTool struct {
	Type string `json:"type"`
}

const (
	BuiltinCodeInterpreter = "code_interpreter"
	BuiltinBrowserSearch   = "browser_search"
)

// BuiltinToolSettings records which provider-hosted tools the user has
// opted into.
type BuiltinToolSettings struct {
	CodeInterpreter bool `mapstructure:"code_interpreter" json:"code_interpreter"`
	BrowserSearch   bool `mapstructure:"browser_search" json:"browser_search"`
}

// buildToolCatalog maps discovered MCP tools to function descriptors
// and appends opted-in built-in tools when the model supports them.
// The result is empty iff no MCP tools exist and no built-ins apply.
func buildToolCatalog(specs []ToolSpec, builtins BuiltinToolSettings, supportsBuiltins bool) []any {
	var tools []any
	for _, spec := range specs {
		params := spec.Schema
		if params == nil {
			params = map[string]any{}
		}
		tools = append(tools, FunctionTool{
			Type: "function",
			Function: FunctionDescriptor{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  params,
			},
		})
	}
	if supportsBuiltins {
		if builtins.CodeInterpreter {
			tools = append(tools, BuiltinTool{Type: BuiltinCodeInterpreter})
		}
		if builtins.BrowserSearch {
			tools = append(tools, BuiltinTool{Type: BuiltinBrowserSearch})
		}
	}
	return tools
}
