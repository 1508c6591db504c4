package assistantnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/facebank-assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: responder returned empty message", contractx.ErrValidation)
	}
	return GraphOutput{Reply: reply}, nil
}
