package workflow

// Service names for the data-platform remediation targets. One workflow is
// owned by exactly one service; the service policy pack keys off these.
const (
	ServiceEMR        = "emr"
	ServiceAirflow    = "mwaa_airflow"
	ServiceGlue       = "glue"
	ServiceAthena     = "athena"
	ServiceKafka      = "kafka"
	ServiceSourceData = "s3_source"
	ServiceIAM        = "iam_permissions"
	ServiceUnknown    = "unknown"
)
