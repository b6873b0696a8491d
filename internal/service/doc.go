// Package service contains the application use cases of the radar: the topic
// catalog, radar and blip lifecycle, user references, and provisioning of the
// starter radar for new users.
//
// Services depend on the store interfaces, never on a specific database
// implementation. Operations that touch more than one store run inside
// store.RunInTransaction using WithTx-bound stores.
//
// Error contract:
//   - *domain.ValidationError for input that fails a rule, including
//     uniqueness and missing references detected by the database
//   - ErrRadarNotFound, ErrBlipNotFound, ErrTopicNotFound, ErrUserNotFound,
//     all matching ErrNotFound, returned bare
//   - *ServiceError wrapping anything unexpected
//   - *ProvisioningError from Provisioner.Provision
package service
