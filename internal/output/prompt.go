package output

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// Interactive reports whether stdin is a terminal a prompt can be shown on.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm prompts the user to confirm an action with a yes/no question.
func Confirm(prompt string) (bool, error) {
	result := false
	c := &survey.Confirm{
		Message: prompt,
	}
	err := survey.AskOne(c, &result)
	return result, err
}

// ConfirmSubmission asks before a call is signed and sent to chain.
func ConfirmSubmission(chainName, call string) (bool, error) {
	return Confirm(fmt.Sprintf("Submit %s to %s?", call, chainName))
}

// InputHiddenString prompts for a secret such as a key URI. The input is
// not echoed and must pass validator.
func InputHiddenString(prompt, help string, validator func(string) error) (string, error) {
	var result string
	i := &survey.Password{
		Message: prompt,
		Help:    help,
	}

	err := survey.AskOne(i, &result, survey.WithValidator(func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("unexpected answer type %T", ans)
		}
		return validator(s)
	}))
	return result, err
}
