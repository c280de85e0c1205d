package email

const subjectImportSummaryFmt = "Lead import finished: %d of %d imported"
