package submission

// Messages holds the user-facing text of one form. Status lines are rendered
// next to the form; notices are delivered once through the notifier.
type Messages struct {
	Warning         string
	Succeeded       string
	Failed          string
	SucceededNotice string
	FailedNotice    string
}

var LinkMessages = Messages{
	Warning:         "Please enter a video link.",
	Succeeded:       "Link submitted and highlights are being generated.",
	Failed:          "Failed to submit the link.",
	SucceededNotice: "Link submitted successfully. Highlights are being processed.",
	FailedNotice:    "Failed to submit the link.",
}

var FileMessages = Messages{
	Warning:         "Please select a file first.",
	Succeeded:       "File uploaded and highlights are being generated.",
	Failed:          "Failed to upload the file.",
	SucceededNotice: "File uploaded successfully. Highlights are being processed.",
	FailedNotice:    "Failed to upload the file.",
}
