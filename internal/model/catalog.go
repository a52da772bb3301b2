package model

// Services are the well-known service names offered as filter facets.
var Services = []string{
	"EC2", "S3", "VPC", "IAM", "RDS", "Lambda", "DynamoDB", "ALB",
	"Auto Scaling", "CloudFront", "Route 53", "CloudWatch", "EBS",
	"CloudTrail", "SNS", "SQS", "Step Functions", "Secrets Manager",
}

// DefaultSources are the announcement feeds polled when no source table is configured.
var DefaultSources = []Source{
	{ID: 1, Name: "What's New", FeedURL: "https://aws.amazon.com/about-aws/whats-new/recent/feed/"},
	{ID: 2, Name: "AWS News Blog", FeedURL: "https://aws.amazon.com/blogs/aws/feed/"},
	{ID: 3, Name: "Architecture Blog", FeedURL: "https://aws.amazon.com/blogs/architecture/feed/"},
	{ID: 4, Name: "Security Blog", FeedURL: "https://aws.amazon.com/blogs/security/feed/"},
}

func SourceNames(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name)
	}
	return names
}
