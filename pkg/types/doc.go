// Package types defines the FamilyTree interface, the Person entity, the
// Gender Classifier, the calendar-date collaborator, and the standard error
// types for the lineage module.
//
// Persons are created standalone with NewPerson and attached to a tree by
// becoming its head, or by being added as a child, partner, or adoptee.
package types
