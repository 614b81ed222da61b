package bot

import (
	"fmt"
)

// User facing replies. Every command invocation resolves to exactly
// one of these

func Pong() string {
	return "pong!"
}

func Subscribed(user string, group string) string {
	return fmt.Sprintf("`%s` has been subscribed to the `%s` match making group.", user, group)
}

func SubscribedWithoutRole(user string, group string) string {
	return fmt.Sprintf("`%s` has been subscribed to the `%s` match making group, but the `%s` role could not be granted.", user, group, group)
}

func Unsubscribed(user string, group string) string {
	return fmt.Sprintf("`%s` has been unsubscribed from the `%s` match making group.", user, group)
}

func UnsubscribedWithoutRole(user string, group string) string {
	return fmt.Sprintf("`%s` has been unsubscribed from the `%s` match making group, but the `%s` role could not be removed.", user, group, group)
}

func AddFailed(user string) string {
	return fmt.Sprintf("failed to add `%s` to the database.", user)
}

func RemoveFailed(user string) string {
	return fmt.Sprintf("failed to remove `%s` from the database.", user)
}

func GroupDoesNotExist(group string) string {
	return fmt.Sprintf("match making group: `%s` does not exist.", group)
}

func AlreadySubscribed(user string, group string) string {
	return fmt.Sprintf("`%s` is already subscribed to match making group: `%s`", user, group)
}

func NotSubscribed(user string, group string) string {
	return fmt.Sprintf("`%s` is not subscribed to match making group: `%s`", user, group)
}

func InternalError(function string) string {
	return fmt.Sprintf("database returned an unknown result when calling `%s()`.", function)
}

func ChannelNameError() string {
	return "error retrieving channel name."
}

func InputNotValid(errorMessage string) string {
	return fmt.Sprintf("Input not valid: %s", errorMessage)
}

func ResyncSummary(report Report) string {
	return fmt.Sprintf(
		"resync complete: %d groups checked, %d resources created, %d already present, %d failed.",
		len(report.Items), report.Created(), report.Present(), report.Failed(),
	)
}
