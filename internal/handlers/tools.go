package handlers

import (
	"strings"

	"scientific-calculator/pkg/mcp"
)

// RegisterTools registers every calculator tool on server.
func RegisterTools(server *mcp.Server, ch *CalcHandler) {
	server.RegisterTool(
		"evaluate",
		"Evaluate a calculator expression with +, -, *, /, ^, parentheses, π, e and scientific functions",
		getEvaluateSchema(ch.GetSupportedFunctions()),
		ch.HandleEvaluate,
	)

	server.RegisterTool(
		"scientific",
		"Apply a scientific key (sin, log, factorial, 1/x, ...) to a single displayed operand",
		getScientificSchema(ch.GetSupportedOperations()),
		ch.HandleScientific,
	)

	server.RegisterTool(
		"format_number",
		"Render a number the way the calculator display shows it",
		getFormatNumberSchema(),
		ch.HandleFormatNumber,
	)

	server.RegisterTool(
		"convert_angle",
		"Convert an angle between degrees and radians",
		getConvertAngleSchema(),
		ch.HandleConvertAngle,
	)

	server.RegisterTool(
		"history",
		"List or clear the calculation history",
		getHistorySchema(),
		ch.HandleHistory,
	)
}

func unitSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"radians", "degrees"},
		"description": "Angle unit for trigonometric functions",
	}
}

func getEvaluateSchema(functions []string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"expression": map[string]interface{}{
				"type":        "string",
				"description": "Expression to evaluate, e.g. \"2 + 3 × 4\". Functions: " + strings.Join(functions, ", "),
			},
			"unit": unitSchema(),
		},
		"required": []string{"expression"},
	}
}

func getScientificSchema(operations []string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"operation": map[string]interface{}{
				"type":        "string",
				"enum":        operations,
				"description": "The operation to apply",
			},
			"operand": map[string]interface{}{
				"type":        "string",
				"description": "The displayed number the operation applies to",
			},
			"unit": unitSchema(),
		},
		"required": []string{"operation", "operand"},
	}
}

func getFormatNumberSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"value": map[string]interface{}{
				"type":        "number",
				"description": "Finite number to format",
			},
		},
		"required": []string{"value"},
	}
}

func getConvertAngleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"value": map[string]interface{}{
				"type":        "number",
				"description": "Angle to convert",
			},
			"from": unitSchema(),
			"to":   unitSchema(),
		},
		"required": []string{"value", "from", "to"},
	}
}

func getHistorySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"list", "clear"},
				"default":     "list",
				"description": "Whether to list or clear the history",
			},
		},
	}
}
